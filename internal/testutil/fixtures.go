package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"klarpakke/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSignal creates a pending BUY signal with a unique symbol.
func CreateTestSignal(t *testing.T, db *gorm.DB) *models.Signal {
	t.Helper()
	symbol := fmt.Sprintf("TST%d", nextID())
	return CreateTestSignalWith(t, db, symbol, models.StatusPending)
}

// CreateTestSignalWith creates a signal with the given symbol and status.
func CreateTestSignalWith(t *testing.T, db *gorm.DB, symbol string, status models.SignalStatus) *models.Signal {
	t.Helper()

	signal := &models.Signal{
		Symbol:     symbol,
		Direction:  models.DirectionBuy,
		Confidence: 0.75,
		Reason:     "Test signal",
		AIModel:    "test-model",
		Status:     status,
	}
	if err := db.Create(signal).Error; err != nil {
		t.Fatalf("failed to create test signal: %v", err)
	}
	return signal
}

// CreateTestRiskMeter creates a daily risk meter for today with the given total.
func CreateTestRiskMeter(t *testing.T, db *gorm.DB, total float64) *models.DailyRiskMeter {
	t.Helper()

	meter := &models.DailyRiskMeter{
		Date:         models.RiskDate(time.Now()),
		TotalRiskUSD: total,
	}
	if err := db.Create(meter).Error; err != nil {
		t.Fatalf("failed to create test risk meter: %v", err)
	}
	return meter
}

// CreateTestPosition creates an open position in the given symbol.
func CreateTestPosition(t *testing.T, db *gorm.DB, symbol string, entryPrice, quantity float64) *models.Position {
	t.Helper()

	position := &models.Position{
		Symbol:     symbol,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Status:     models.PositionOpen,
	}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create test position: %v", err)
	}
	return position
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"klarpakke/internal/models"
	"klarpakke/internal/testutil"
	"klarpakke/internal/webflow"
)

// collectionStub is an in-memory stand-in for the collection items API.
type collectionStub struct {
	mu    sync.Mutex
	items []webflow.Item
}

func (s *collectionStub) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/collections/") {
			http.NotFound(w, r)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(map[string]interface{}{"items": s.items}); err != nil {
				t.Errorf("failed to encode list response: %v", err)
			}
		case http.MethodPost:
			var req struct {
				FieldData webflow.ItemFields `json:"fieldData"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.items = append(s.items, webflow.Item{ID: req.FieldData.Slug, FieldData: req.FieldData})
			w.WriteHeader(http.StatusAccepted)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (s *collectionStub) snapshot() []webflow.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]webflow.Item(nil), s.items...)
}

func TestSyncApproved(t *testing.T) {
	t.Run("syncs_approved_signals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		server := httptest.NewServer(stub.handler(t))
		defer server.Close()

		approved := testutil.CreateTestSignalWith(t, db, "ETH", models.StatusApproved)
		testutil.CreateTestSignalWith(t, db, "BTC", models.StatusPending)

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		report, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)

		if report.Synced != 1 || report.Skipped != 0 || report.Errors != 0 || report.Total != 1 {
			t.Errorf("unexpected report: %+v", report)
		}

		items := stub.snapshot()
		if len(items) != 1 {
			t.Fatalf("expected 1 collection item, got %d", len(items))
		}
		fields := items[0].FieldData
		if fields.Slug != approved.Slug() {
			t.Errorf("expected slug %s, got %s", approved.Slug(), fields.Slug)
		}
		if fields.Name != "ETH BUY" {
			t.Errorf("expected name ETH BUY, got %s", fields.Name)
		}
		if fields.Confidence != 75 {
			t.Errorf("expected confidence 75, got %d", fields.Confidence)
		}
		if fields.Status != "approved" {
			t.Errorf("expected status approved, got %s", fields.Status)
		}
	})

	t.Run("second_run_creates_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		server := httptest.NewServer(stub.handler(t))
		defer server.Close()

		testutil.CreateTestSignalWith(t, db, "ETH", models.StatusApproved)
		testutil.CreateTestSignalWith(t, db, "SOL", models.StatusApproved)

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		first, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)
		if first.Synced != 2 {
			t.Fatalf("expected 2 synced on first run, got %d", first.Synced)
		}

		second, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)
		if second.Synced != 0 {
			t.Errorf("expected 0 synced on second run, got %d", second.Synced)
		}
		if second.Skipped != 2 {
			t.Errorf("expected 2 skipped on second run, got %d", second.Skipped)
		}
		if len(stub.snapshot()) != 2 {
			t.Errorf("expected 2 collection items after both runs, got %d", len(stub.snapshot()))
		}
	})

	t.Run("blank_symbol_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		server := httptest.NewServer(stub.handler(t))
		defer server.Close()

		testutil.CreateTestSignalWith(t, db, "   ", models.StatusApproved)
		testutil.CreateTestSignalWith(t, db, "ETH", models.StatusApproved)

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		report, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)
		if report.Synced != 1 || report.Skipped != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("empty_reason_gets_fallback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		server := httptest.NewServer(stub.handler(t))
		defer server.Close()

		signal := testutil.CreateTestSignalWith(t, db, "ETH", models.StatusApproved)
		if err := db.Model(signal).Update("reason", "").Error; err != nil {
			t.Fatalf("failed to blank reason: %v", err)
		}

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		_, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)

		items := stub.snapshot()
		if len(items) != 1 {
			t.Fatalf("expected 1 collection item, got %d", len(items))
		}
		if items[0].FieldData.Reason != "No reason provided" {
			t.Errorf("expected fallback reason, got %q", items[0].FieldData.Reason)
		}
	})

	t.Run("failed_create_does_not_block_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		inner := stub.handler(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				var req struct {
					FieldData webflow.ItemFields `json:"fieldData"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.FieldData.Symbol == "BAD" {
					http.Error(w, "validation failed", http.StatusBadRequest)
					return
				}
				stub.mu.Lock()
				stub.items = append(stub.items, webflow.Item{ID: req.FieldData.Slug, FieldData: req.FieldData})
				stub.mu.Unlock()
				w.WriteHeader(http.StatusAccepted)
				return
			}
			inner.ServeHTTP(w, r)
		}))
		defer server.Close()

		testutil.CreateTestSignalWith(t, db, "BAD", models.StatusApproved)
		testutil.CreateTestSignalWith(t, db, "ETH", models.StatusApproved)

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		report, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)
		if report.Errors != 1 {
			t.Errorf("expected 1 error, got %d", report.Errors)
		}
		if report.Synced != 1 {
			t.Errorf("expected 1 synced, got %d", report.Synced)
		}
	})

	t.Run("no_approved_signals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		stub := &collectionStub{}
		server := httptest.NewServer(stub.handler(t))
		defer server.Close()

		testutil.CreateTestSignalWith(t, db, "BTC", models.StatusPending)

		signals := NewSignalService(db, 0)
		collection := webflow.NewClient(server.URL, "token", "col-1", server.Client())
		svc := NewSyncService(signals, collection, 10, 0)

		report, err := svc.SyncApproved(context.Background())
		testutil.AssertNoError(t, err)
		if report.Total != 0 || report.Synced != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
	})
}

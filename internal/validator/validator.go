// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Tickers are short uppercase alphanumerics (BTC, ETH, SOL, ...).
var symbolRegex = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("signal_direction", validateSignalDirection)
		_ = v.RegisterValidation("signal_status", validateSignalStatus)
		_ = v.RegisterValidation("signal_action", validateSignalAction)
		_ = v.RegisterValidation("ticker_symbol", validateTickerSymbol)
	}
}

func validateSignalDirection(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "BUY", "SELL":
		return true
	}
	return false
}

func validateSignalStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "approved", "rejected":
		return true
	}
	return false
}

// Actions are accepted case-insensitively; the service normalizes them.
func validateSignalAction(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "approve", "reject":
		return true
	}
	return false
}

func validateTickerSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}

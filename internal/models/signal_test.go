package models

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		name   string
		symbol string
		id     string
		want   string
	}{
		{"lowercases_symbol", "BTC", "abcdef1234567890", "btc-abcdef12"},
		{"short_id_kept_whole", "ETH", "abc", "eth-abc"},
		{"mixed_case_symbol", "DoGe", "1234567890abcdef", "doge-12345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Signal{Symbol: tc.symbol}
			s.ID = tc.id
			if got := s.Slug(); got != tc.want {
				t.Errorf("Slug() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConfidencePercent(t *testing.T) {
	cases := []struct {
		confidence float64
		want       int
	}{
		{0, 0},
		{0.5, 50},
		{0.754, 75},
		{0.756, 76},
		{0.8, 80},
		{1, 100},
	}
	for _, tc := range cases {
		s := &Signal{Confidence: tc.confidence}
		if got := s.ConfidencePercent(); got != tc.want {
			t.Errorf("ConfidencePercent(%f) = %d, want %d", tc.confidence, got, tc.want)
		}
	}
}

func TestHasSymbol(t *testing.T) {
	if (&Signal{Symbol: "BTC"}).HasSymbol() != true {
		t.Error("expected BTC to count as a symbol")
	}
	if (&Signal{Symbol: ""}).HasSymbol() {
		t.Error("expected empty symbol to be invalid")
	}
	if (&Signal{Symbol: "   "}).HasSymbol() {
		t.Error("expected whitespace symbol to be invalid")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !StatusApproved.Terminal() {
		t.Error("approved must be terminal")
	}
	if !StatusRejected.Terminal() {
		t.Error("rejected must be terminal")
	}
}

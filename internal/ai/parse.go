package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidResponse marks a completion that could not be parsed into a
// candidate with the required fields. The candidate text is discarded;
// nothing is persisted.
var ErrInvalidResponse = errors.New("ai: response did not contain a parseable signal")

// Candidate is a parsed signal proposal from the AI provider.
type Candidate struct {
	Symbol     string
	Direction  string
	Confidence float64
	Reasoning  string
}

// candidatePayload mirrors the JSON shape the provider is prompted to
// return. Some completions use "reason" instead of "reasoning".
type candidatePayload struct {
	Symbol     string   `json:"symbol"`
	Direction  string   `json:"direction"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Reason     string   `json:"reason"`
}

// ParseCandidate parses a completion into a Candidate using a two-stage
// strategy: strict JSON first, then strict JSON of the first balanced
// {...} span found in the text. Anything beyond that is an error, not a
// guess.
func ParseCandidate(text string) (*Candidate, error) {
	payload, ok := tryUnmarshal(text)
	if !ok {
		span, found := firstJSONObject(text)
		if !found {
			return nil, ErrInvalidResponse
		}
		payload, ok = tryUnmarshal(span)
		if !ok {
			return nil, ErrInvalidResponse
		}
	}

	symbol := strings.TrimSpace(payload.Symbol)
	direction := strings.ToUpper(strings.TrimSpace(payload.Direction))
	if symbol == "" || payload.Confidence == nil {
		return nil, ErrInvalidResponse
	}
	if direction != "BUY" && direction != "SELL" {
		return nil, ErrInvalidResponse
	}
	if *payload.Confidence < 0 || *payload.Confidence > 1 {
		return nil, ErrInvalidResponse
	}

	reasoning := payload.Reasoning
	if reasoning == "" {
		reasoning = payload.Reason
	}

	return &Candidate{
		Symbol:     symbol,
		Direction:  direction,
		Confidence: *payload.Confidence,
		Reasoning:  reasoning,
	}, nil
}

func tryUnmarshal(text string) (*candidatePayload, bool) {
	var payload candidatePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

// firstJSONObject returns the first balanced {...} span in text,
// tracking string literals and escapes so braces inside values do not
// terminate the span early.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

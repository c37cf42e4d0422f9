package predictor

import (
	"errors"
	"strings"
	"testing"
)

func TestWeightedKnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		outcome    Outcome
		confidence float64
	}{
		{
			name:       "all zeros",
			input:      strings.Repeat("0", 32),
			outcome:    OutcomeXiu,
			confidence: 100,
		},
		{
			name:       "all f",
			input:      strings.Repeat("f", 32),
			outcome:    OutcomeXiu,
			confidence: 33.33,
		},
		{
			name:       "heavy first half",
			input:      strings.Repeat("f", 16) + strings.Repeat("0", 16),
			outcome:    OutcomeTai,
			confidence: 33.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Weighted{}.Predict(tt.input)
			if err != nil {
				t.Fatalf("predict: %v", err)
			}
			if res.Outcome != tt.outcome {
				t.Fatalf("expected %s, got %s", tt.outcome, res.Outcome)
			}
			if res.Confidence != tt.confidence {
				t.Fatalf("expected confidence %.2f, got %.2f", tt.confidence, res.Confidence)
			}
		})
	}
}

func TestWeightedAcceptsUppercase(t *testing.T) {
	lower, err := Weighted{}.Predict(strings.Repeat("ab12", 8))
	if err != nil {
		t.Fatal(err)
	}
	upper, err := Weighted{}.Predict(strings.Repeat("AB12", 8))
	if err != nil {
		t.Fatal(err)
	}
	if lower.Outcome != upper.Outcome || lower.Confidence != upper.Confidence {
		t.Fatal("case should not change the result")
	}
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "too short", input: strings.Repeat("a", 31)},
		{name: "too long", input: strings.Repeat("a", 33)},
		{name: "non-hex char", input: strings.Repeat("a", 31) + "g"},
		{name: "spaces inside", input: strings.Repeat("a", 16) + " " + strings.Repeat("a", 15)},
	}

	for _, p := range []Predictor{Weighted{}, Random{}} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := p.Predict(tt.input); !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	}
}

func TestAnalysisBreakdown(t *testing.T) {
	res, err := Weighted{}.Predict(strings.Repeat("0f", 16))
	if err != nil {
		t.Fatal(err)
	}
	a := res.Analysis
	if a.EvenDigits != 16 || a.OddDigits != 16 {
		t.Fatalf("expected 16/16 even-odd split, got %d/%d", a.EvenDigits, a.OddDigits)
	}
	if a.AlphaCount != 16 || a.NumCount != 16 {
		t.Fatalf("expected 16/16 alpha-num split, got %d/%d", a.AlphaCount, a.NumCount)
	}
	if a.Entropy != 0.13 {
		t.Fatalf("expected entropy 0.13, got %.2f", a.Entropy)
	}
}

func TestRandomStaysInRange(t *testing.T) {
	input := strings.Repeat("a", 32)
	for i := 0; i < 100; i++ {
		res, err := Random{}.Predict(input)
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if res.Outcome != OutcomeTai && res.Outcome != OutcomeXiu {
			t.Fatalf("unexpected outcome %q", res.Outcome)
		}
		if res.Confidence < 50 || res.Confidence > 99 {
			t.Fatalf("confidence %.2f out of range", res.Confidence)
		}
	}
}

func TestNewSelectsVariant(t *testing.T) {
	if _, ok := New("random").(Random); !ok {
		t.Fatal("expected Random for kind=random")
	}
	if _, ok := New("weighted").(Weighted); !ok {
		t.Fatal("expected Weighted for kind=weighted")
	}
	if _, ok := New("").(Weighted); !ok {
		t.Fatal("expected Weighted default")
	}
}

package predictor

import (
	"errors"
	"math"
	"math/rand"
	"strings"
)

type Outcome string

const (
	OutcomeTai Outcome = "Tài"
	OutcomeXiu Outcome = "Xỉu"
)

var ErrInvalidInput = errors.New("input must be exactly 32 hex characters")

// Analysis is the cosmetic breakdown shown alongside a prediction.
type Analysis struct {
	EvenDigits int
	OddDigits  int
	AlphaCount int
	NumCount   int
	Entropy    float64
}

type Result struct {
	Outcome    Outcome
	Confidence float64
	Analysis   Analysis
}

// Predictor maps an MD5 string to an outcome. The formula carries no
// statistical meaning; it only has to be stable per implementation.
type Predictor interface {
	Predict(md5 string) (Result, error)
}

// New returns the predictor selected by name, defaulting to the
// weighted-digit one.
func New(kind string) Predictor {
	if kind == "random" {
		return Random{}
	}
	return Weighted{}
}

// digitWeight returns the hex value of c, or -1 for anything else.
func digitWeight(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

func validate(md5 string) (string, error) {
	md5 = strings.ToLower(strings.TrimSpace(md5))
	if len(md5) != 32 {
		return "", ErrInvalidInput
	}
	for i := 0; i < len(md5); i++ {
		if digitWeight(md5[i]) < 0 {
			return "", ErrInvalidInput
		}
	}
	return md5, nil
}

func analyze(md5 string) Analysis {
	var a Analysis
	seen := make(map[byte]bool, 16)
	for i := 0; i < len(md5); i++ {
		c := md5[i]
		seen[c] = true
		if digitWeight(c)%2 == 0 {
			a.EvenDigits++
		} else {
			a.OddDigits++
		}
		if c >= 'a' {
			a.AlphaCount++
		} else {
			a.NumCount++
		}
	}
	a.Entropy = round2(float64(len(seen)) / 16)
	return a
}

// Weighted is the deterministic variant: two halves and the alternating
// positions of the string are summed, combined, and bucketed mod 36.
type Weighted struct{}

func (Weighted) Predict(md5 string) (Result, error) {
	md5, err := validate(md5)
	if err != nil {
		return Result{}, err
	}

	var w1, w2, w3, w4 int
	for i := 0; i < len(md5); i++ {
		w := digitWeight(md5[i])
		if i < 16 {
			w1 += w
		} else {
			w2 += w
		}
		if i%2 == 0 {
			w3 += w
		} else {
			w4 += w
		}
	}

	combined := float64(w1)*0.4 + float64(w2)*0.4 + float64(w3-w4)*0.2
	bucket := mod36(int(combined))

	outcome := OutcomeXiu
	if bucket >= 18 {
		outcome = OutcomeTai
	}
	confidence := round2(math.Abs((fmod36(combined) - 18) / 18 * 100))

	return Result{Outcome: outcome, Confidence: confidence, Analysis: analyze(md5)}, nil
}

// Random is the variant with no formula at all: a coin flip dressed up
// with a made-up confidence score.
type Random struct{}

func (Random) Predict(md5 string) (Result, error) {
	md5, err := validate(md5)
	if err != nil {
		return Result{}, err
	}

	outcome := OutcomeXiu
	if rand.Intn(2) == 1 {
		outcome = OutcomeTai
	}
	confidence := round2(50 + rand.Float64()*49)

	return Result{Outcome: outcome, Confidence: confidence, Analysis: analyze(md5)}, nil
}

// mod36 is a non-negative modulo.
func mod36(n int) int {
	return ((n % 36) + 36) % 36
}

func fmod36(f float64) float64 {
	m := math.Mod(f, 36)
	if m < 0 {
		m += 36
	}
	return m
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

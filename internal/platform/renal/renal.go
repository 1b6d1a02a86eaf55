// Package renal implements the CKD-EPI 2021 creatinine equation, the
// eGFR-to-stage mapping, and a creatinine sampler used by fixtures. All
// functions are pure; arithmetic runs in fixed-precision decimal.
package renal

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/pkg/clinical"
)

// powPrecision is the number of significant digits carried through the
// fractional exponentiations in the CKD-EPI equation.
const powPrecision = 16

var (
	one           = decimal.NewFromInt(1)
	equationScale = decimal.NewFromInt(142)
)

// EGFR computes the estimated glomerular filtration rate (mL/min/1.73 m²)
// from a serum creatinine (mg/dL, > 0), age in whole years, and gender,
// using the CKD-EPI 2021 creatinine equation:
//
//	eGFR = 142 · min(C/κ, 1)^α · max(C/κ, 1)^(−1.200) · 0.9938^age · S
//
// The result is rounded half-even to a whole number. Inputs are trusted;
// range enforcement belongs to the validators.
func EGFR(creatinine decimal.Decimal, age int, gender clinical.Gender) decimal.Decimal {
	sexModifier, alpha, kappa := sexModifierAlphaKappa(gender)

	ratio := creatinine.DivRound(kappa, powPrecision)

	minTerm, _ := decimal.Min(ratio, one).PowWithPrecision(alpha, powPrecision)
	maxTerm, _ := decimal.Max(ratio, one).PowWithPrecision(clinical.EGFRMaxExponent, powPrecision)
	ageTerm, _ := clinical.EGFRAgeBase.PowWithPrecision(decimal.NewFromInt(int64(age)), powPrecision)

	egfr := equationScale.Mul(minTerm).Mul(maxTerm).Mul(ageTerm).Mul(sexModifier)
	return egfr.RoundBank(0)
}

func sexModifierAlphaKappa(gender clinical.Gender) (sexModifier, alpha, kappa decimal.Decimal) {
	if gender == clinical.Male {
		return clinical.EGFRSexModifierMale, clinical.EGFRAlphaMale, clinical.EGFRKappaMale
	}
	return clinical.EGFRSexModifierFemale, clinical.EGFRAlphaFemale, clinical.EGFRKappaFemale
}

// StageFromEGFR maps an eGFR onto a CKD stage. Band boundaries are inclusive
// at the top: eGFR 90 is stage I, 60 is stage II, and so on.
func StageFromEGFR(egfr decimal.Decimal) clinical.Stage {
	switch {
	case egfr.GreaterThanOrEqual(decimal.NewFromInt(clinical.EGFRCutoffStageI)):
		return clinical.StageI
	case egfr.GreaterThanOrEqual(decimal.NewFromInt(clinical.EGFRCutoffStageII)):
		return clinical.StageII
	case egfr.GreaterThanOrEqual(decimal.NewFromInt(clinical.EGFRCutoffStageIII)):
		return clinical.StageIII
	case egfr.GreaterThanOrEqual(decimal.NewFromInt(clinical.EGFRCutoffStageIV)):
		return clinical.StageIV
	default:
		return clinical.StageV
	}
}

// StageFromCreatinine is StageFromEGFR composed with EGFR.
func StageFromCreatinine(creatinine decimal.Decimal, age int, gender clinical.Gender) clinical.Stage {
	return StageFromEGFR(EGFR(creatinine, age, gender))
}

// samplerMax is the exclusive upper bound of the sampler's search range.
var samplerMax = decimal.NewFromInt(5)

// SampleCreatinineForStage returns a two-decimal creatinine in
// [0.50, 5.00] whose eGFR for (age, gender) falls inside the target stage's
// band. The search is the bounded bisection-by-resampling used by the
// fixtures: draw from U(0, 5); when the resulting eGFR is below the band,
// redraw from U(0, guess); when above, from U(guess, 5). A converged draw
// below 0.50 restarts the search rather than being accepted (out-of-range
// creatinines are a validator error, not fixture data); after repeated
// restarts the clamped minimum is returned. Expected O(1) iterations but
// unbounded worst case, so never call this on a request path.
func SampleCreatinineForStage(rng *rand.Rand, stage clinical.Stage, age int, gender clinical.Gender) decimal.Decimal {
	const restarts = 100
	for attempt := 0; attempt < restarts; attempt++ {
		guess, ok := sampleOnce(rng, stage, age, gender)
		if ok && guess.GreaterThanOrEqual(clinical.CreatinineMinValue) {
			return guess
		}
	}
	return clinical.CreatinineMinValue
}

func sampleOnce(rng *rand.Rand, stage clinical.Stage, age int, gender clinical.Gender) (decimal.Decimal, bool) {
	// Two-decimal quantization can pin the interval; cap the walk and let
	// the caller restart from a fresh draw.
	const maxSteps = 64
	lower := decimal.Zero
	upper := samplerMax
	guess := uniformBetween(rng, lower, upper)
	for i := 0; i < maxSteps; i++ {
		got := StageFromEGFR(EGFR(guess, age, gender))
		switch {
		case got == stage:
			return guess, true
		case got > stage:
			// eGFR below the band: creatinine is too high.
			upper = guess
		default:
			lower = guess
		}
		guess = uniformBetween(rng, lower, upper)
	}
	return decimal.Zero, false
}

// uniformBetween draws a two-decimal value from (lower, upper), retrying
// draws that quantize onto a bound so the interval keeps shrinking.
func uniformBetween(rng *rand.Rand, lower, upper decimal.Decimal) decimal.Decimal {
	span := upper.Sub(lower)
	for {
		d := lower.Add(span.Mul(decimal.NewFromFloat(rng.Float64()))).Round(2)
		if d.GreaterThan(lower) && d.LessThan(upper) {
			return d
		}
		// Interval narrower than the quantum: give back the midpoint.
		if span.LessThanOrEqual(decimal.RequireFromString("0.02")) {
			return lower.Add(span.Div(decimal.NewFromInt(2))).Round(2)
		}
	}
}

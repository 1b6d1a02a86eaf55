package clinical

import "github.com/shopspring/decimal"

// Age limits. GoutHelper is for adults only; menopause history is collected
// for women aged 40 up to (not including) 60.
const (
	MinPatientAge    = 18
	MinMenopauseAge  = 40
	MaxMenopauseAge  = 60
)

// eGFR cutoffs between CKD stages, inclusive at the top of each band.
const (
	EGFRCutoffStageI   = 90
	EGFRCutoffStageII  = 60
	EGFRCutoffStageIII = 30
	EGFRCutoffStageIV  = 15
)

// CKD-EPI 2021 creatinine equation constants.
// https://www.kidney.org/professionals/kdoqi/gfr_calculator/formula
var (
	EGFRKappaMale         = decimal.RequireFromString("0.9")
	EGFRKappaFemale       = decimal.RequireFromString("0.7")
	EGFRAlphaMale         = decimal.RequireFromString("-0.302")
	EGFRAlphaFemale       = decimal.RequireFromString("-0.241")
	EGFRSexModifierMale   = decimal.RequireFromString("1.000")
	EGFRSexModifierFemale = decimal.RequireFromString("1.012")
	EGFRAgeBase           = decimal.RequireFromString("0.9938")
	EGFRMaxExponent       = decimal.RequireFromString("-1.200")
)

// Creatinine reference limits and the accepted value range, mg/dL. Values
// above the upper bound imply active dialysis and belong on the CkdDetail.
var (
	CreatinineLowerLimit = decimal.RequireFromString("0.74")
	CreatinineUpperLimit = decimal.RequireFromString("1.35")
	CreatinineMinValue   = decimal.RequireFromString("0.50")
	CreatinineMaxValue   = decimal.RequireFromString("5.00")
)

// CreatinineUnits is the only unit GoutHelper stores creatinine in.
const CreatinineUnits = "MGDL"

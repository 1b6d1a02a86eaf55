// Package clinical holds the closed enumerations and numeric constants
// shared by the GoutHelper domain packages. All values are fixed at
// compile time; nothing here is mutable at runtime.
package clinical

import "fmt"

// Gender is an enumerated patient gender.
type Gender int

const (
	Male   Gender = 0
	Female Gender = 1
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "MALE"
	case Female:
		return "FEMALE"
	}
	return fmt.Sprintf("Gender(%d)", int(g))
}

// Valid reports whether g is one of the declared genders.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Role is the role of an authenticated user.
type Role int

const (
	RolePatient       Role = 1
	RoleProvider      Role = 2
	RolePseudopatient Role = 3
	RoleAdmin         Role = 4
)

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "PATIENT"
	case RoleProvider:
		return "PROVIDER"
	case RolePseudopatient:
		return "PSEUDOPATIENT"
	case RoleAdmin:
		return "ADMIN"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) Valid() bool {
	return r >= RolePatient && r <= RoleAdmin
}

// Stage is a CKD stage, I (mildest) through V (kidney failure).
type Stage int

const (
	StageI   Stage = 1
	StageII  Stage = 2
	StageIII Stage = 3
	StageIV  Stage = 4
	StageV   Stage = 5
)

var stageNumerals = [...]string{"I", "II", "III", "IV", "V"}

func (s Stage) String() string {
	if s.Valid() {
		return stageNumerals[s-1]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) Valid() bool {
	return s >= StageI && s <= StageV
}

// DialysisType is the modality of dialysis.
type DialysisType int

const (
	Hemodialysis       DialysisType = 1
	PeritonealDialysis DialysisType = 2
)

func (d DialysisType) String() string {
	switch d {
	case Hemodialysis:
		return "Hemodialysis"
	case PeritonealDialysis:
		return "Peritoneal Dialysis"
	}
	return fmt.Sprintf("DialysisType(%d)", int(d))
}

func (d DialysisType) Valid() bool {
	return d == Hemodialysis || d == PeritonealDialysis
}

// DialysisDuration is the categorical time a patient has been on dialysis.
type DialysisDuration int

const (
	DurationLessThanSix  DialysisDuration = 1
	DurationSixToTwelve  DialysisDuration = 2
	DurationMoreThanYear DialysisDuration = 3
)

func (d DialysisDuration) String() string {
	switch d {
	case DurationLessThanSix:
		return "Less than six months"
	case DurationSixToTwelve:
		return "Between six months and a year"
	case DurationMoreThanYear:
		return "More than a year"
	}
	return fmt.Sprintf("DialysisDuration(%d)", int(d))
}

func (d DialysisDuration) Valid() bool {
	return d >= DurationLessThanSix && d <= DurationMoreThanYear
}

// Ethnicity is one of the closed set of ethnicity tags GoutHelper tracks.
type Ethnicity string

const (
	AfricanAmerican   Ethnicity = "African American"
	Caucasian         Ethnicity = "Caucasian"
	EastAfrican       Ethnicity = "East African"
	HanChinese        Ethnicity = "Han Chinese"
	Hispanic          Ethnicity = "Hispanic"
	Hmong             Ethnicity = "Hmong"
	Korean            Ethnicity = "Korean"
	NativeAmerican    Ethnicity = "Native American"
	OtherEthnicity    Ethnicity = "Other"
	PacificIslander   Ethnicity = "Pacific Islander"
	Thai              Ethnicity = "Thai"
	PreferNotToAnswer Ethnicity = "Prefer not to answer"
)

// Ethnicitys lists every valid ethnicity tag.
var Ethnicitys = []Ethnicity{
	AfricanAmerican, Caucasian, EastAfrican, HanChinese, Hispanic, Hmong,
	Korean, NativeAmerican, OtherEthnicity, PacificIslander, Thai,
	PreferNotToAnswer,
}

func (e Ethnicity) Valid() bool {
	for _, v := range Ethnicitys {
		if e == v {
			return true
		}
	}
	return false
}

// MHType tags a MedicalHistory record. The set is closed; per-type behavior
// lives in lookup tables keyed by the tag, never in per-type code.
type MHType string

const (
	MHAngina                MHType = "ANGINA"
	MHAnticoagulation       MHType = "ANTICOAGULATION"
	MHBleed                 MHType = "BLEED"
	MHCAD                   MHType = "CAD"
	MHCHF                   MHType = "CHF"
	MHCKD                   MHType = "CKD"
	MHColchicineInteraction MHType = "COLCHICINEINTERACTION"
	MHDiabetes              MHType = "DIABETES"
	MHErosions              MHType = "EROSIONS"
	MHGastricBypass         MHType = "GASTRICBYPASS"
	MHGout                  MHType = "GOUT"
	MHHeartAttack           MHType = "HEARTATTACK"
	MHHepatitis             MHType = "HEPATITIS"
	MHHypertension          MHType = "HYPERTENSION"
	MHHyperuricemia         MHType = "HYPERURICEMIA"
	MHIBD                   MHType = "IBD"
	MHMenopause             MHType = "MENOPAUSE"
	MHOrganTransplant       MHType = "ORGANTRANSPLANT"
	MHOsteoporosis          MHType = "OSTEOPOROSIS"
	MHPUD                   MHType = "PUD"
	MHPAD                   MHType = "PAD"
	MHStroke                MHType = "STROKE"
	MHTophi                 MHType = "TOPHI"
	MHUrateStones           MHType = "URATESTONES"
	MHXOIInteraction        MHType = "XOIINTERACTION"
)

// MHTypeLabels maps each tag to its display name.
var MHTypeLabels = map[MHType]string{
	MHAngina:                "Angina",
	MHAnticoagulation:       "Anticoagulation",
	MHBleed:                 "Bleed",
	MHCAD:                   "Coronary Artery Disease",
	MHCHF:                   "Congestive Heart Failure",
	MHCKD:                   "Chronic Kidney Disease",
	MHColchicineInteraction: "Colchicine Medication Interaction",
	MHDiabetes:              "Diabetes",
	MHErosions:              "Erosions",
	MHGastricBypass:         "Gastric Bypass",
	MHGout:                  "Gout",
	MHHeartAttack:           "Heart Attack",
	MHHepatitis:             "Hepatitis or Cirrhosis",
	MHHypertension:          "Hypertension",
	MHHyperuricemia:         "Hyperuricemia",
	MHIBD:                   "Inflammatory Bowel Disease",
	MHMenopause:             "Post-Menopausal",
	MHOrganTransplant:       "Organ Transplant",
	MHOsteoporosis:          "Osteoporosis",
	MHPUD:                   "Peptic Ulcer Disease",
	MHPAD:                   "Peripheral Vascular Disease",
	MHStroke:                "Stroke",
	MHTophi:                 "Tophi",
	MHUrateStones:           "Urate kidney stones",
	MHXOIInteraction:        "Xanthine Oxidase Inhibitor Medication Interaction",
}

func (t MHType) Valid() bool {
	_, ok := MHTypeLabels[t]
	return ok
}

func (t MHType) Label() string {
	if label, ok := MHTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// CVDiseases are the cardiovascular disease subset of MHType, used to
// summarize cardiovascular comorbidity.
var CVDiseases = []MHType{MHAngina, MHCAD, MHCHF, MHHeartAttack, MHStroke, MHPAD}

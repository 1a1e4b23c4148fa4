package domain

import "time"

// StressLevel buckets a composite risk score into a reporting band.
type StressLevel string

const (
	StressLow      StressLevel = "LOW"
	StressModerate StressLevel = "MODERATE"
	StressHigh     StressLevel = "HIGH"
	StressExtreme  StressLevel = "EXTREME"
)

// RiskFactor names one of the scored stress dimensions.
type RiskFactor string

const (
	FactorCoverage RiskFactor = "coverage"
	FactorLeverage RiskFactor = "leverage"
	FactorTrend    RiskFactor = "trend"
	FactorVelocity RiskFactor = "velocity"
	FactorActivity RiskFactor = "activity"
)

// RiskScore is the persisted scoring result for one commodity on one
// report date: the five factor subscores on a 0..100 scale, the
// weighted composite, its band, the factor contributing most stress
// and a short generated commentary. Unique per (commodity, report date).
type RiskScore struct {
	Commodity  string      `json:"commodity" db:"commodity" validate:"required"`
	ReportDate time.Time   `json:"report_date" db:"report_date" validate:"required"`
	Coverage   int         `json:"coverage_score" db:"coverage_score" validate:"min=0,max=100"`
	Leverage   int         `json:"leverage_score" db:"leverage_score" validate:"min=0,max=100"`
	Trend      int         `json:"trend_score" db:"trend_score" validate:"min=0,max=100"`
	Velocity   int         `json:"velocity_score" db:"velocity_score" validate:"min=0,max=100"`
	Activity   int         `json:"activity_score" db:"activity_score" validate:"min=0,max=100"`
	Composite  int         `json:"composite_score" db:"composite_score" validate:"min=0,max=100"`
	Level      StressLevel `json:"level" db:"level" validate:"oneof=LOW MODERATE HIGH EXTREME"`
	Dominant   RiskFactor  `json:"dominant_factor" db:"dominant_factor"`
	Commentary string      `json:"commentary" db:"commentary"`
}

// PaperPhysical records the paper-to-physical leverage snapshot backing
// the leverage subscore: open interest converted to physical units
// against registered warehouse stock. Unique per (commodity, report date).
type PaperPhysical struct {
	Commodity       string    `json:"commodity" db:"commodity" validate:"required"`
	Symbol          string    `json:"symbol" db:"symbol" validate:"required"`
	ReportDate      time.Time `json:"report_date" db:"report_date" validate:"required"`
	OpenInterest    int64     `json:"open_interest" db:"open_interest" validate:"min=0"`
	PaperUnits      float64   `json:"paper_units" db:"paper_units" validate:"min=0"`
	RegisteredUnits float64   `json:"registered_units" db:"registered_units" validate:"min=0"`
	Ratio           float64   `json:"ratio" db:"ratio"`
	Level           string    `json:"level" db:"level"`
}

// LeverageLevel bands a paper-to-physical ratio for reporting.
func LeverageLevel(ratio float64) string {
	switch {
	case ratio < 3:
		return "LOW"
	case ratio < 5:
		return "MODERATE"
	case ratio < 10:
		return "ELEVATED"
	default:
		return "HIGH"
	}
}

package domain

import "time"

// FirmOrg is the clearing-firm account class on an issues & stops line.
type FirmOrg string

const (
	// OrgClearing marks activity for the firm's customer (clearing) account.
	OrgClearing FirmOrg = "C"
	// OrgHouse marks activity for the firm's proprietary (house) account.
	OrgHouse FirmOrg = "H"
)

// FirmActivity is one firm's issued/stopped counts on a daily delivery
// report. Code and Org together identify the firm within one contract.
type FirmActivity struct {
	Code    string  `json:"code" db:"firm_code" validate:"required"`
	Org     FirmOrg `json:"org" db:"firm_org" validate:"oneof=C H"`
	Name    string  `json:"name" db:"firm_name" validate:"required"`
	Issued  int     `json:"issued" db:"issued" validate:"min=0"`
	Stopped int     `json:"stopped" db:"stopped" validate:"min=0"`
}

// Key identifies the firm line for cross-page merging.
func (f FirmActivity) Key() string {
	return f.Code + "/" + string(f.Org)
}

// DeliveryDay is one commodity's delivery notice activity for a single
// business date: the contract being delivered against, the day's
// issued/stopped totals, the month-to-date cumulative counter and the
// per-firm breakdown. Unique per (commodity, report date).
type DeliveryDay struct {
	Commodity     string         `json:"metal" db:"metal" validate:"required"`
	Symbol        string         `json:"symbol" db:"symbol" validate:"required"`
	ReportDate    time.Time      `json:"report_date" db:"report_date" validate:"required"`
	ContractMonth string         `json:"contract_month" db:"contract_month"`
	Settlement    *float64       `json:"settlement" db:"settlement_price"`
	DeliveryDate  time.Time      `json:"delivery_date"`
	DailyIssued   int            `json:"daily_issued" db:"daily_issued" validate:"min=0"`
	DailyStopped  int            `json:"daily_stopped" db:"daily_stopped" validate:"min=0"`
	MonthToDate   int            `json:"month_to_date" db:"month_to_date" validate:"min=0"`
	Firms         []FirmActivity `json:"firms" validate:"dive"`
}

// DayCount is one row of the month-to-date progression: contracts
// delivered on one date and the running cumulative for the month.
type DayCount struct {
	Date       time.Time `json:"date"`
	Daily      int       `json:"daily" validate:"min=0"`
	Cumulative int       `json:"cumulative" validate:"min=0"`
}

// DeliveryMonthToDate is one commodity's day-by-day delivery
// progression for the current delivery month. The entity total is the
// cumulative value of the last row.
type DeliveryMonthToDate struct {
	Commodity       string     `json:"metal" validate:"required"`
	Symbol          string     `json:"symbol" validate:"required"`
	ReportDate      time.Time  `json:"report_date" validate:"required"`
	ContractMonth   string     `json:"contract_month"`
	Days            []DayCount `json:"daily_data" validate:"dive"`
	TotalCumulative int        `json:"total_cumulative" validate:"min=0"`
}

// FirmYearToDate carries one firm's issued and stopped counts broken
// down by month across the thirteen YTD report slots.
type FirmYearToDate struct {
	Code          string        `json:"code" validate:"required"`
	Org           FirmOrg       `json:"org" validate:"oneof=C H"`
	Name          string        `json:"name" validate:"required"`
	Issued        MonthlyCounts `json:"issued"`
	Stopped       MonthlyCounts `json:"stopped"`
	TotalIssued   int           `json:"total_issued"`
	TotalStopped  int           `json:"total_stopped"`
	TotalActivity int           `json:"total_activity"`
}

// Key identifies the firm pair for cross-page merging.
func (f FirmYearToDate) Key() string {
	return f.Code + "/" + string(f.Org)
}

// DeliveryYearToDate is one product's year-to-date delivery picture:
// monthly contract totals plus the firm-level monthly breakdown.
type DeliveryYearToDate struct {
	Commodity     string           `json:"metal" validate:"required"`
	Symbol        string           `json:"symbol" validate:"required"`
	ProductName   string           `json:"product_name"`
	ReportDate    time.Time        `json:"report_date" validate:"required"`
	MonthlyTotals MonthlyCounts    `json:"monthly_totals"`
	Firms         []FirmYearToDate `json:"firms" validate:"dive"`
}

package domain

import "time"

// ContractQuote is one contract month's row in the daily bulletin:
// settlement, day change and the volume/open-interest columns. Settle
// and Change are pointers because a month with no trade can print
// placeholders ("----", "UNCH") that are distinct from a zero price.
type ContractQuote struct {
	Month        string   `json:"month" validate:"required"`
	Settle       *float64 `json:"settle"`
	Change       *float64 `json:"change"`
	GlobexVolume int64    `json:"globex_volume" validate:"min=0"`
	PNTVolume    int64    `json:"pnt_volume" validate:"min=0"`
	OpenInterest int64    `json:"open_interest" validate:"min=0"`
	OIChange     int64    `json:"oi_change"`
}

// Volume is the contract's total traded volume across venues.
func (q ContractQuote) Volume() int64 {
	return q.GlobexVolume + q.PNTVolume
}

// BulletinProduct is one instrument's section of the daily bulletin:
// its contract rows (sorted by volume descending, so the first row is
// the front month by activity) and the instrument-level totals row.
type BulletinProduct struct {
	Symbol            string          `json:"symbol" validate:"required"`
	Name              string          `json:"name"`
	Contracts         []ContractQuote `json:"contracts" validate:"dive"`
	TotalVolume       int64           `json:"total_volume" validate:"min=0"`
	TotalOpenInterest int64           `json:"total_open_interest" validate:"min=0"`
	TotalOIChange     int64           `json:"total_oi_change"`
}

// FrontMonth returns the most active contract row, or nil for a
// product with no parsed contract rows.
func (p *BulletinProduct) FrontMonth() *ContractQuote {
	if len(p.Contracts) == 0 {
		return nil
	}
	return &p.Contracts[0]
}

// ProductVolume is one instrument's line of the summary volume & open
// interest bulletin, including the year-ago comparison columns.
type ProductVolume struct {
	Symbol          string `json:"symbol" validate:"required"`
	Name            string `json:"name"`
	GlobexVolume    int64  `json:"globex_volume" validate:"min=0"`
	TotalVolume     int64  `json:"total_volume" validate:"min=0"`
	OpenInterest    int64  `json:"open_interest" validate:"min=0"`
	OIChange        int64  `json:"oi_change"`
	YoYVolume       int64  `json:"yoy_volume" validate:"min=0"`
	YoYOpenInterest int64  `json:"yoy_open_interest" validate:"min=0"`
}

// GroupVolume aggregates a product group's volume and open interest
// line (the "METALS" totals row of the summary bulletin).
type GroupVolume struct {
	Volume          int64 `json:"volume" validate:"min=0"`
	OpenInterest    int64 `json:"open_interest" validate:"min=0"`
	OIChange        int64 `json:"oi_change"`
	YoYVolume       int64 `json:"yoy_volume" validate:"min=0"`
	YoYOpenInterest int64 `json:"yoy_open_interest" validate:"min=0"`
}

// MarketActivity is the per-instrument market structure record the
// pipeline persists: front-month pricing from the bulletin combined
// with volume/open-interest and year-ago columns from the summary.
// Unique per (symbol, report date).
type MarketActivity struct {
	Symbol          string    `json:"symbol" db:"symbol" validate:"required"`
	Name            string    `json:"name" db:"product_name"`
	ReportDate      time.Time `json:"report_date" db:"report_date" validate:"required"`
	FrontMonth      string    `json:"front_month" db:"front_month"`
	Settlement      *float64  `json:"settlement" db:"settlement_price"`
	Change          *float64  `json:"change" db:"price_change"`
	TotalVolume     int64     `json:"total_volume" db:"total_volume" validate:"min=0"`
	OpenInterest    int64     `json:"open_interest" db:"open_interest" validate:"min=0"`
	OIChange        int64     `json:"oi_change" db:"oi_change"`
	YoYVolume       int64     `json:"yoy_volume" db:"yoy_volume" validate:"min=0"`
	YoYOpenInterest int64     `json:"yoy_open_interest" db:"yoy_open_interest" validate:"min=0"`
}

package domain

import "time"

// DepositoryHolding is one warehouse's stock position inside an
// inventory snapshot. Quantities are in the warehouse report's native
// units (troy oz, short tons or metric tons depending on the metal).
type DepositoryHolding struct {
	Name       string  `json:"name" db:"name" validate:"required"`
	Registered float64 `json:"registered" db:"registered" validate:"min=0"`
	Eligible   float64 `json:"eligible" db:"eligible" validate:"min=0"`
	Total      float64 `json:"total" db:"total" validate:"min=0"`
}

// InventorySnapshot captures the exchange warehouse stock of one
// commodity on one report date: registered (warranted, deliverable),
// eligible (meets spec but not warranted) and the per-depository
// breakdown. Snapshots are immutable; a new report date produces a new
// snapshot rather than mutating an old one.
type InventorySnapshot struct {
	Commodity    string              `json:"commodity" db:"commodity" validate:"required"`
	ReportDate   time.Time           `json:"report_date" db:"report_date" validate:"required"`
	ActivityDate time.Time           `json:"activity_date" db:"activity_date"`
	Registered   float64             `json:"registered" db:"registered" validate:"min=0"`
	Eligible     float64             `json:"eligible" db:"eligible" validate:"min=0"`
	Total        float64             `json:"total" db:"total" validate:"min=0"`
	Depositories []DepositoryHolding `json:"depositories" validate:"dive"`
}

// RegisteredShare returns registered stock as a percentage of total,
// or zero when the snapshot is empty.
func (s *InventorySnapshot) RegisteredShare() float64 {
	if s.Total <= 0 {
		return 0
	}
	return s.Registered / s.Total * 100
}

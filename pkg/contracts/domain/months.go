package domain

// MonthlyCounts holds the thirteen month slots of a year-to-date
// delivery report row: the previous year's December followed by the
// twelve months of the current year.
type MonthlyCounts struct {
	PrevDec int `json:"prev_dec"`
	Jan     int `json:"jan"`
	Feb     int `json:"feb"`
	Mar     int `json:"mar"`
	Apr     int `json:"apr"`
	May     int `json:"may"`
	Jun     int `json:"jun"`
	Jul     int `json:"jul"`
	Aug     int `json:"aug"`
	Sep     int `json:"sep"`
	Oct     int `json:"oct"`
	Nov     int `json:"nov"`
	Dec     int `json:"dec"`
}

// MonthSlots is the number of columns in a YTD report row.
const MonthSlots = 13

func (m *MonthlyCounts) slot(i int) *int {
	switch i {
	case 0:
		return &m.PrevDec
	case 1:
		return &m.Jan
	case 2:
		return &m.Feb
	case 3:
		return &m.Mar
	case 4:
		return &m.Apr
	case 5:
		return &m.May
	case 6:
		return &m.Jun
	case 7:
		return &m.Jul
	case 8:
		return &m.Aug
	case 9:
		return &m.Sep
	case 10:
		return &m.Oct
	case 11:
		return &m.Nov
	case 12:
		return &m.Dec
	default:
		return nil
	}
}

// At returns the count in slot i (0 = previous December, 12 = December).
// Out-of-range slots read as zero.
func (m *MonthlyCounts) At(i int) int {
	if p := m.slot(i); p != nil {
		return *p
	}
	return 0
}

// Set writes slot i; out-of-range slots are ignored.
func (m *MonthlyCounts) Set(i, v int) {
	if p := m.slot(i); p != nil {
		*p = v
	}
}

// Sum returns the total across all thirteen slots.
func (m *MonthlyCounts) Sum() int {
	total := 0
	for i := 0; i < MonthSlots; i++ {
		total += m.At(i)
	}
	return total
}

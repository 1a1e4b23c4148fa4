package storage

// Outcome is the per-record result of a persistence call. The batch
// collects outcomes rather than failing fast so one bad record cannot
// block the rest of the day's data.
type Outcome struct {
	Entity string
	Key    string
	Err    error
}

// Succeeded reports whether the record was persisted.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

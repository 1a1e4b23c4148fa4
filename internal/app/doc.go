// Package app orchestrates one batch run: load the day's report files,
// parse them concurrently, derive stress scores, persist every record
// with per-record outcomes, and write the JSON artifacts. Parse misses
// and per-record persistence failures are logged and tallied, never
// fatal; only a missing daily report or an unreachable store aborts
// the run.
package app

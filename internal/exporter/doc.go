// Package exporter writes the pipeline's JSON artifacts. Each artifact
// is written atomically (temp file then rename) so a crash mid-write
// never leaves a truncated file for downstream consumers, and the
// update stamp comes from an injected clock so re-running a batch over
// the same inputs reproduces the artifacts byte for byte.
package exporter

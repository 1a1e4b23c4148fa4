// Package reports parses the plain-text exchange reports the pipeline
// ingests: the daily, month-to-date and year-to-date issues & stops
// reports plus the settlement bulletin (section 62) and the summary
// volume & open interest bulletin (section 02B).
//
// The package is organized into three layers:
//
//  1. Numeric tokens: ParseAmount, ParseCount and ParseSigned turn raw
//     report tokens (thousands separators, detached sign markers,
//     "----"/"UNCH" placeholders) into values or defined defaults.
//  2. Section splitting: SplitContracts, SplitPages, SplitFirmBlocks
//     and ProductSection carve a report's text into per-entity blocks.
//  3. Report parsers: one pure function per report layout, emitting the
//     domain records, followed by cross-page merging for the layouts
//     where one entity's rows can span extraction boundaries.
//
// All parsers are pure with respect to their input text. Structural
// misses (an entity header that maps to no known commodity, a row that
// matches no grammar) are skipped, never fatal; missing numeric fields
// default to zero for counts and nil for prices.
package reports

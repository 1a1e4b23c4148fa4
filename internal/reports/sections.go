package reports

import (
	"regexp"
	"strings"
)

// Section is one entity's slice of a report: the header line that
// introduced it and the body text running to the next entity or EOF.
type Section struct {
	Header string
	Body   string
}

var (
	contractMarkerRe = regexp.MustCompile(`(?m)^\s*CONTRACT:\s*`)
	pageBannerRe     = regexp.MustCompile(`DLV665-T\s+CME CLEARING`)
	firmRuleRe       = regexp.MustCompile(`_{10,}`)
)

// SplitContracts segments a delivery report into per-contract sections
// on the "CONTRACT:" marker. The header is the remainder of the marker
// line (the contract title); the body runs to the next marker. Text
// before the first marker (the report header) is discarded.
func SplitContracts(text string) []Section {
	locs := contractMarkerRe.FindAllStringIndex(text, -1)
	sections := make([]Section, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunk := text[loc[1]:end]
		header := chunk
		body := ""
		if nl := strings.IndexByte(chunk, '\n'); nl >= 0 {
			header = chunk[:nl]
			body = chunk[nl+1:]
		}
		sections = append(sections, Section{Header: strings.TrimSpace(header), Body: body})
	}
	return sections
}

// SplitPages segments a year-to-date report into its pages on the
// clearing banner each page repeats. The cover text before the first
// banner is discarded.
func SplitPages(text string) []string {
	pages := pageBannerRe.Split(text, -1)
	if len(pages) <= 1 {
		return nil
	}
	return pages[1:]
}

// SplitFirmBlocks segments a report page into firm blocks on the long
// underscore rules drawn between them. Empty blocks are dropped.
func SplitFirmBlocks(page string) []string {
	var blocks []string
	for _, b := range firmRuleRe.Split(page, -1) {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// ProductSection extracts one instrument's slice of the settlement
// bulletin: from the "SYM FUT" header line through its "TOTAL SYM FUT"
// row. Returns ok=false when the bulletin has no section for the
// symbol.
func ProductSection(text, symbol string) (string, bool) {
	startRe := regexp.MustCompile(`(?mi)^` + regexp.QuoteMeta(symbol) + `\s+FUT\s+`)
	start := startRe.FindStringIndex(text)
	if start == nil {
		return "", false
	}

	totalRe := regexp.MustCompile(`(?i)TOTAL\s+` + regexp.QuoteMeta(symbol) + `\s+FUT\s+`)
	total := totalRe.FindStringIndex(text[start[0]:])
	if total == nil {
		return "", false
	}

	// The total row's numbers follow the marker on the same line, so
	// the section runs through the end of that line.
	end := start[0] + total[1]
	if nl := strings.IndexByte(text[end:], '\n'); nl >= 0 {
		end += nl
	} else {
		end = len(text)
	}
	return text[start[0]:end], true
}

package reports

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	businessDateRe = regexp.MustCompile(`BUSINESS DATE:\s*(\d{2}/\d{2}/\d{4})`)
	runDateRe      = regexp.MustCompile(`RUN DATE:\s*(\d{2}/\d{2}/\d{4})`)
	bulletinNumRe  = regexp.MustCompile(`(?i)BULLETIN\s*#\s*(\d+)`)
	bulletinDateRe = regexp.MustCompile(`(?i)(Mon|Tue|Wed|Thu|Fri|Sat|Sun)[,.]?\s*(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})`)
)

const reportDateLayout = "01/02/2006"

func parseReportDate(s string) (time.Time, bool) {
	t, err := time.Parse(reportDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// businessDate extracts the "BUSINESS DATE:" stamp from a delivery
// report header. The zero time means the header was absent.
func businessDate(text string) time.Time {
	if m := businessDateRe.FindStringSubmatch(text); m != nil {
		if t, ok := parseReportDate(m[1]); ok {
			return t
		}
	}
	return time.Time{}
}

func runDate(text string) time.Time {
	if m := runDateRe.FindStringSubmatch(text); m != nil {
		if t, ok := parseReportDate(m[1]); ok {
			return t
		}
	}
	return time.Time{}
}

// bulletinHeader extracts the bulletin number and the trade date from a
// bulletin cover header like "BULLETIN # 18" and "Wed, Jan 28, 2026".
func bulletinHeader(text string) (int, time.Time) {
	var number int
	if m := bulletinNumRe.FindStringSubmatch(text); m != nil {
		number, _ = strconv.Atoi(m[1])
	}

	var date time.Time
	if m := bulletinDateRe.FindStringSubmatch(text); m != nil {
		month := monthNumber(m[2])
		day, _ := strconv.Atoi(m[3])
		year, _ := strconv.Atoi(m[4])
		if month != 0 && day > 0 {
			date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}
	return number, date
}

func monthNumber(abbr string) int {
	for i, name := range []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"} {
		if strings.EqualFold(abbr, name) {
			return i + 1
		}
	}
	return 0
}

// contractMonthRe matches a full month name and year in a contract
// title, e.g. "AUGUST 2025 COMEX GOLD FUTURES".
var contractMonthRe = regexp.MustCompile(`(?i)(JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER)\s+(\d{4})`)

// contractMonthCode condenses a contract title's delivery month into
// the short code the bulletins use ("AUGUST 2025" becomes "AUG25").
func contractMonthCode(title string) string {
	m := contractMonthRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1][:3]) + m[2][2:]
}

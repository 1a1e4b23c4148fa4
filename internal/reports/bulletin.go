package reports

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// BulletinReport is the parsed settlement bulletin (section 62): per
// instrument, its contract rows and totals. Products with no reported
// volume or open interest are dropped.
type BulletinReport struct {
	BulletinNumber int                      `json:"bulletin_number"`
	Date           time.Time                `json:"date"`
	Products       []domain.BulletinProduct `json:"products"`
}

// bulletinInstruments lists the metals sections extracted from the
// bulletin, in report order.
var bulletinInstruments = []struct {
	Symbol string
	Name   string
}{
	{"1OZ", "1 OUNCE GOLD FUTURES"},
	{"GC", "COMEX GOLD FUTURES"},
	{"SI", "COMEX SILVER FUTURES"},
	{"SIL", "5000 OZ SILVER FUTURES"},
	{"HG", "COMEX COPPER FUTURES"},
	{"PL", "NYMEX PLATINUM FUTURES"},
	{"PA", "NYMEX PALLADIUM FUTURES"},
	{"ALI", "COMEX PHYSICAL ALUMINUM FUTURES"},
}

// Columns: month, open, high/low, settle, change, globex volume, PNT
// volume, open interest, OI change. Prices may be dashed placeholders
// and the change may be UNCH or NEW for newly listed months.
var contractRowRe = regexp.MustCompile(`(?m)^([A-Z]{3}\d{2})\s+` +
	`([\d.,]+|----)\s+` +
	`([\d.,/BA\s]+|----)\s+` +
	`([\d.,]+)\s*` +
	`([+-]?\s*[\d.,]+|UNCH|NEW)\s+` +
	`([\d,]+|----)\s+` +
	`([\d,]+|----)\s+` +
	`([\d,]+)\s*` +
	`([+-]?\s*[\d,]+|UNCH)?`)

// ParseBulletin parses the settlement bulletin text.
func ParseBulletin(text string) *BulletinReport {
	report := &BulletinReport{}
	report.BulletinNumber, report.Date = bulletinHeader(text)

	for _, inst := range bulletinInstruments {
		section, ok := ProductSection(text, inst.Symbol)
		if !ok {
			continue
		}
		product := parseBulletinSection(section, inst.Symbol, inst.Name)
		if product.TotalVolume > 0 || product.TotalOpenInterest > 0 {
			report.Products = append(report.Products, product)
		}
	}
	return report
}

func parseBulletinSection(section, symbol, name string) domain.BulletinProduct {
	product := domain.BulletinProduct{Symbol: symbol, Name: name}

	for _, m := range contractRowRe.FindAllStringSubmatch(section, -1) {
		settle, ok := ParseAmount(m[4])
		if !ok {
			continue
		}
		change, _ := ParseAmount(m[5]) // UNCH and NEW read as zero
		quote := domain.ContractQuote{
			Month:        m[1],
			Settle:       &settle,
			Change:       &change,
			GlobexVolume: int64(ParseCount(m[6])),
			PNTVolume:    int64(ParseCount(m[7])),
			OpenInterest: int64(ParseCount(m[8])),
			OIChange:     ParseSigned(m[9]),
		}
		product.Contracts = append(product.Contracts, quote)
	}

	product.TotalVolume, product.TotalOpenInterest, product.TotalOIChange = parseBulletinTotal(section, symbol)

	// Most active contract first; by convention it is the front month.
	sort.SliceStable(product.Contracts, func(i, j int) bool {
		return product.Contracts[i].Volume() > product.Contracts[j].Volume()
	})
	return product
}

// parseBulletinTotal reads the instrument's TOTAL row. Two layouts
// occur: volume, PNT volume, open interest, OI change for the primary
// contracts, and volume, open interest, OI change for variants with no
// negotiated-trade column. Open interest runs an order of magnitude
// above PNT volume, which disambiguates the two.
func parseBulletinTotal(section, symbol string) (volume, openInterest, oiChange int64) {
	quoted := regexp.QuoteMeta(symbol)
	withPNT := regexp.MustCompile(`(?i)TOTAL\s+` + quoted + `\s+FUT\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s*([+-]?\s*[\d,]+)`)
	withoutPNT := regexp.MustCompile(`(?i)TOTAL\s+` + quoted + `\s+FUT\s+([\d,]+)\s+([\d,]+)\s*([+-]?\s*[\d,]+)`)

	if m := withPNT.FindStringSubmatch(section); m != nil {
		second := int64(ParseCount(m[2]))
		third := int64(ParseCount(m[3]))
		if third > second*10 {
			return int64(ParseCount(m[1])), third, ParseSigned(m[4])
		}
	}
	if m := withoutPNT.FindStringSubmatch(section); m != nil {
		return int64(ParseCount(m[1])), int64(ParseCount(m[2])), ParseSigned(strings.TrimSpace(m[3]))
	}
	return 0, 0, 0
}

package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ytdFixture = `DLV665-T             CME CLEARING                                     PAGE 1
              METALS ISSUES AND STOPS YEAR TO DATE REPORT
RUN DATE: 08/15/2025                                 BUSINESS DATE: 08/14/2025
PRODUCT GROUP: METALS
PRODUCT        COMEX GOLD FUTURES
FIRM NBR                 |ORG|   | PREV DEC|     JAN |     FEB |     MAR |     APR |     MAY |     JUN |     JUL |     AUG |     SEP |     OCT |     NOV |     DEC
____________________________________________________________________________
104                      | | I |       0 |      66 |       0 |       0 |       0 |       0 |       0 |       0 |      12 |       0 |       0 |       0 |       0
MIZUHO SECURITIES USA    |C| S |      95 |      60 |      46 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
____________________________________________________________________________
661                      | | I |      10 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
JP MORGAN SECURITIES     |H| S |       0 |       5 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
____________________________________________________________________________
TOTALS:  |     105 |     131 |      46 |       0 |       0 |       0 |       0 |       0 |      12 |       0 |       0 |       0 |       0
DLV665-T             CME CLEARING                                     PAGE 2
              METALS ISSUES AND STOPS YEAR TO DATE REPORT
PRODUCT GROUP: METALS
PRODUCT        COMEX GOLD FUTURES
____________________________________________________________________________
104                      | | I |       0 |       0 |      30 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
MIZUHO SECURITIES USA    |C| S |       0 |       0 |       0 |       8 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
DLV665-T             CME CLEARING                                     PAGE 3
              METALS ISSUES AND STOPS YEAR TO DATE REPORT
PRODUCT GROUP: METALS
PRODUCT        NYMEX PALLADIUM FUTURES
____________________________________________________________________________
314                      | | I |       0 |       3 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
STONEX FINANCIAL         |C| S |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
____________________________________________________________________________
TOTALS:  |       0 |       3 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0 |       0
`

func TestParseYearToDate(t *testing.T) {
	report := ParseYearToDate(ytdFixture)
	require.Len(t, report.Products, 2)

	gold := report.Products[0]
	assert.Equal(t, "Gold", gold.Commodity)
	assert.Equal(t, "GC", gold.Symbol)
	assert.Equal(t, "COMEX GOLD FUTURES", gold.ProductName)
	assert.Equal(t, 105, gold.MonthlyTotals.PrevDec)
	assert.Equal(t, 131, gold.MonthlyTotals.Jan)
	assert.Equal(t, 12, gold.MonthlyTotals.Aug)

	// Firm 104/C spans two pages; the continuation's non-zero cells
	// fold into the same entry without disturbing the first page's.
	require.Len(t, gold.Firms, 2)
	mizuho := gold.Firms[0]
	assert.Equal(t, "104", mizuho.Code)
	assert.Equal(t, "MIZUHO SECURITIES USA", mizuho.Name)
	assert.Equal(t, 66, mizuho.Issued.Jan)
	assert.Equal(t, 30, mizuho.Issued.Feb)
	assert.Equal(t, 12, mizuho.Issued.Aug)
	assert.Equal(t, 95, mizuho.Stopped.PrevDec)
	assert.Equal(t, 8, mizuho.Stopped.Mar)
	assert.Equal(t, 108, mizuho.TotalIssued)
	assert.Equal(t, 209, mizuho.TotalStopped)
	assert.Equal(t, 317, mizuho.TotalActivity)

	// Sorted by total activity descending.
	assert.Greater(t, gold.Firms[0].TotalActivity, gold.Firms[1].TotalActivity)

	palladium := report.Products[1]
	assert.Equal(t, "Palladium", palladium.Commodity)
	assert.Equal(t, 3, palladium.MonthlyTotals.Jan)
	require.Len(t, palladium.Firms, 1)
}

func TestSplitFirmBlocks(t *testing.T) {
	page := "header\n__________________\nblock one\n__________________\nblock two\n"
	blocks := SplitFirmBlocks(page)
	require.Len(t, blocks, 3)
	assert.Equal(t, "header", blocks[0])
	assert.Equal(t, "block one", blocks[1])
	assert.Equal(t, "block two", blocks[2])
}

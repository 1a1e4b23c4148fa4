package reports

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  float64
		ok    bool
	}{
		{name: "plain", token: "2495.60", want: 2495.60, ok: true},
		{name: "thousands separators", token: "1,577,286", want: 1577286, ok: true},
		{name: "bid marker", token: "5154.80B", want: 5154.80, ok: true},
		{name: "ask marker", token: "5415.20A", want: 5415.20, ok: true},
		{name: "detached plus sign", token: "+   221.00", want: 221, ok: true},
		{name: "detached minus sign", token: "-  6,482", want: -6482, ok: true},
		{name: "dashed placeholder", token: "----", ok: false},
		{name: "unchanged placeholder", token: "UNCH", ok: false},
		{name: "new listing placeholder", token: "NEW", ok: false},
		{name: "empty", token: "", ok: false},
		{name: "garbage", token: "N/A", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseCountDefaultsToZero(t *testing.T) {
	assert.Equal(t, 0, ParseCount("----"))
	assert.Equal(t, 0, ParseCount("UNCH"))
	assert.Equal(t, 0, ParseCount(""))
	assert.Equal(t, 1240, ParseCount("1,240"))
}

func TestParseSigned(t *testing.T) {
	assert.Equal(t, int64(-32438), ParseSigned("- 32438"))
	assert.Equal(t, int64(1645), ParseSigned("+ 1,645"))
	assert.Equal(t, int64(0), ParseSigned("UNCH"))
	assert.Equal(t, int64(0), ParseSigned(""))
}

func TestParseCountRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse inverts comma formatting", prop.ForAll(
		func(v int) bool {
			return ParseCount(FormatCount(v)) == v
		},
		gen.IntRange(0, 2_000_000_000),
	))

	properties.TestingRun(t)
}

package risk

// NeutralScore is the midpoint subscore substituted when a signal's
// input is unavailable (no 30-day history, no delivery data, no
// year-ago open interest).
const NeutralScore = 50.0

type breakpoint struct {
	input float64
	score float64
}

// curve is a monotonic piecewise-linear normalization: inputs between
// breakpoints interpolate linearly, inputs past either end extrapolate
// along the end segment, and the result is clamped to [0,100].
type curve []breakpoint

func (c curve) eval(x float64) float64 {
	first, last := c[0], c[len(c)-1]

	var score float64
	switch {
	case x <= first.input:
		score = extrapolate(c[0], c[1], x)
	case x >= last.input:
		score = extrapolate(c[len(c)-2], last, x)
	default:
		for i := 1; i < len(c); i++ {
			if x <= c[i].input {
				score = extrapolate(c[i-1], c[i], x)
				break
			}
		}
	}
	return clamp(score)
}

func extrapolate(a, b breakpoint, x float64) float64 {
	slope := (b.score - a.score) / (b.input - a.input)
	return a.score + (x-a.input)*slope
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// coverageCurve maps months of cover (registered stock over trailing
// monthly delivery demand) to risk. Falling: a year of cover scores
// zero, under a month scores 90 and up.
var coverageCurve = curve{
	{0, 100},
	{1, 90},
	{3, 65},
	{6, 41},
	{12, 0},
}

// leverageCurve maps the paper-to-physical ratio (open interest in
// physical units over registered stock) to risk. Rising: parity scores
// zero, twenty claims per unit scores 95 and up.
var leverageCurve = curve{
	{1, 0},
	{3, 30},
	{5, 50},
	{10, 75},
	{20, 95},
}

// trendCurve maps the 30-day percent change in registered stock to
// risk. Falling: growth of 10% or more scores zero, a 50% drawdown
// scores 95 and up.
var trendCurve = curve{
	{-50, 95},
	{-20, 70},
	{0, 44},
	{10, 0},
}

// velocityCurve maps annualized month-to-date delivery volume over
// registered stock to risk. Rising: at a ratio of 1 the year's pace
// would empty the registered stock entirely.
var velocityCurve = curve{
	{0, 0},
	{0.5, 30},
	{1, 50},
	{2, 70},
	{4, 85},
	{8, 95},
}

// activityCurve maps the year-over-year percent change in open
// interest to risk. Rising: a crowded, growing market stresses the
// deliverable supply.
var activityCurve = curve{
	{-20, 0},
	{0, 45},
	{25, 60},
	{50, 80},
	{100, 95},
}

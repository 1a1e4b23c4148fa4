package risk

import (
	"sort"
	"strings"

	"cmxcli/pkg/contracts/domain"
)

// Subscore thresholds that trigger factor-specific commentary.
const (
	severeThreshold   = 70
	elevatedThreshold = 50
)

var factorRemarks = map[domain.RiskFactor]struct {
	severe   string
	elevated string
}{
	domain.FactorCoverage: {
		severe:   "Registered stocks cover well under a month of delivery demand.",
		elevated: "Registered stocks cover only a few months of delivery demand.",
	},
	domain.FactorLeverage: {
		severe:   "Paper claims dwarf the registered stock backing them.",
		elevated: "Paper claims run several times the registered stock backing them.",
	},
	domain.FactorTrend: {
		severe:   "Registered stocks are draining sharply over the past month.",
		elevated: "Registered stocks have been declining over the past month.",
	},
	domain.FactorVelocity: {
		severe:   "Deliveries are running at a pace that would exhaust registered stocks within months.",
		elevated: "Deliveries are drawing on registered stocks at an elevated pace.",
	},
	domain.FactorActivity: {
		severe:   "Open interest has surged far beyond year-ago levels.",
		elevated: "Open interest is growing well above year-ago levels.",
	},
}

var levelRemarks = map[domain.StressLevel]string{
	domain.StressLow:      "Physical supply comfortably covers current market demands.",
	domain.StressModerate: "Physical supply conditions are balanced with no acute stress signals.",
	domain.StressHigh:     "Several supply signals are tightening at once.",
	domain.StressExtreme:  "Supply stress is broad and acute across signals.",
}

// commentary renders up to two sentences for the subscores crossing
// the elevated threshold, highest first; with none elevated, one
// generic sentence keyed to the level.
func commentary(card Scorecard) string {
	type remark struct {
		factor domain.RiskFactor
		score  float64
	}

	var elevated []remark
	for _, fw := range factorWeights {
		if s := card.subscore(fw.Factor); s >= elevatedThreshold {
			elevated = append(elevated, remark{fw.Factor, s})
		}
	}
	if len(elevated) == 0 {
		return levelRemarks[card.Level]
	}

	sort.SliceStable(elevated, func(i, j int) bool {
		return elevated[i].score > elevated[j].score
	})
	if len(elevated) > 2 {
		elevated = elevated[:2]
	}

	sentences := make([]string, 0, 2)
	for _, r := range elevated {
		remarks := factorRemarks[r.factor]
		if r.score >= severeThreshold {
			sentences = append(sentences, remarks.severe)
		} else {
			sentences = append(sentences, remarks.elevated)
		}
	}
	return strings.Join(sentences, " ")
}

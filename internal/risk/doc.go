// Package risk scores physical-supply stress per commodity on a 0-100
// scale. Five signals (months of cover, paper-to-physical leverage,
// 30-day inventory trend, delivery velocity, open-interest activity)
// are normalized through piecewise-linear curves, weighted into a
// composite, classified into a level and summarized in a short
// commentary. All functions are pure and deterministic: the same
// inputs always produce the same scorecard.
package risk

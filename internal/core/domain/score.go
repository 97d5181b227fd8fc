package domain

import (
	"regexp"
	"strconv"
)

var suitabilityScorePattern = regexp.MustCompile(`Suitability Score: (\d{1,3})%`)

// ExtractSuitabilityScore returns the first "Suitability Score: NN%" value in
// text. Values above 100 are passed through unchanged.
func ExtractSuitabilityScore(text string) (int, bool) {
	match := suitabilityScorePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	score, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return score, true
}

package analytics

import "strings"

// Rating tokens accepted for five-level qualitative fields.
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingNeutral   = "neutral"
	RatingPoor      = "poor"
	RatingVeryPoor  = "very_poor"
)

var ratingScores = map[string]float64{
	RatingExcellent: 5,
	RatingGood:      4,
	RatingNeutral:   3,
	RatingPoor:      2,
	RatingVeryPoor:  1,
}

// ToScore converts a qualitative token to the common 0-5 scale. For
// five-level fields an unrecognized or empty token scores 0. For yes/no
// fields "yes" (case-insensitive) scores 5 and anything else 0. Zero is
// overloaded: it means both "negative answer" and "no answer", so callers
// that need the distinction must check presence before converting.
func ToScore(token string, boolean bool) float64 {
	if boolean {
		if strings.EqualFold(strings.TrimSpace(token), "yes") {
			return 5
		}
		return 0
	}
	return ratingScores[strings.ToLower(strings.TrimSpace(token))]
}

// ScoreOf converts an optional token and reports whether an answer was
// present at all. A nil or blank token yields (0, false).
func ScoreOf(token *string, boolean bool) (float64, bool) {
	if token == nil || strings.TrimSpace(*token) == "" {
		return 0, false
	}
	return ToScore(*token, boolean), true
}

// ValidRatingToken reports whether raw is one of the five rating levels.
func ValidRatingToken(raw string) bool {
	_, ok := ratingScores[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ValidBooleanToken reports whether raw is a yes/no answer.
func ValidBooleanToken(raw string) bool {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return normalized == "yes" || normalized == "no"
}

package analytics

import "testing"

func TestToScoreRatingTokens(t *testing.T) {
	cases := []struct {
		token string
		want  float64
	}{
		{"excellent", 5},
		{"good", 4},
		{"neutral", 3},
		{"poor", 2},
		{"very_poor", 1},
		{"EXCELLENT", 5},
		{" good ", 4},
		{"", 0},
		{"amazing", 0},
	}
	for _, tc := range cases {
		if got := ToScore(tc.token, false); got != tc.want {
			t.Errorf("ToScore(%q, false) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestToScoreBooleanTokens(t *testing.T) {
	cases := []struct {
		token string
		want  float64
	}{
		{"yes", 5},
		{"YES", 5},
		{"no", 0},
		{"", 0},
		{"maybe", 0},
	}
	for _, tc := range cases {
		if got := ToScore(tc.token, true); got != tc.want {
			t.Errorf("ToScore(%q, true) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestScoreOfPresence(t *testing.T) {
	if _, present := ScoreOf(nil, false); present {
		t.Fatalf("nil token should not be present")
	}

	blank := "  "
	if _, present := ScoreOf(&blank, false); present {
		t.Fatalf("blank token should not be present")
	}

	no := "no"
	score, present := ScoreOf(&no, true)
	if !present {
		t.Fatalf("answered token should be present")
	}
	if score != 0 {
		t.Fatalf("negative answer should score 0, got %v", score)
	}
}

func TestTokenValidators(t *testing.T) {
	if !ValidRatingToken("Neutral") {
		t.Errorf("neutral should be a valid rating token")
	}
	if ValidRatingToken("yes") {
		t.Errorf("yes is not a rating token")
	}
	if !ValidBooleanToken("No") {
		t.Errorf("no should be a valid boolean token")
	}
	if ValidBooleanToken("good") {
		t.Errorf("good is not a boolean token")
	}
}

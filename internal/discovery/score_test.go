package discovery

import (
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		keywords    []string
		wantScore   float64
		wantMatched []string
	}{
		{
			name:      "no keywords configured",
			text:      "Senior Go Engineer",
			keywords:  nil,
			wantScore: 0,
		},
		{
			name:        "full match",
			text:        "Senior Go engineer, remote, kubernetes experience",
			keywords:    []string{"go", "remote", "kubernetes"},
			wantScore:   1,
			wantMatched: []string{"go", "remote", "kubernetes"},
		},
		{
			name:        "partial match",
			text:        "Python developer, remote position",
			keywords:    []string{"go", "remote", "kubernetes", "python"},
			wantScore:   0.5,
			wantMatched: []string{"remote", "python"},
		},
		{
			name:        "case insensitive",
			text:        "GOLANG and Kubernetes shop",
			keywords:    []string{"golang", "KUBERNETES"},
			wantScore:   1,
			wantMatched: []string{"golang", "KUBERNETES"},
		},
		{
			name:        "matched follows keyword order, not text order",
			text:        "kubernetes first, golang second",
			keywords:    []string{"golang", "kubernetes"},
			wantScore:   1,
			wantMatched: []string{"golang", "kubernetes"},
		},
		{
			name:        "duplicate keywords counted once, score stays capped",
			text:        "go go go",
			keywords:    []string{"go", "go", "GO"},
			wantScore:   1.0 / 3.0,
			wantMatched: []string{"go"},
		},
		{
			name:      "no match",
			text:      "Sales representative",
			keywords:  []string{"go", "rust"},
			wantScore: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, matched := Score(tc.text, tc.keywords)
			if score != tc.wantScore {
				t.Errorf("score = %v, want %v", score, tc.wantScore)
			}
			if !reflect.DeepEqual(matched, tc.wantMatched) {
				t.Errorf("matched = %v, want %v", matched, tc.wantMatched)
			}
			if score < 0 || score > 1 {
				t.Errorf("score %v out of [0, 1]", score)
			}
		})
	}
}

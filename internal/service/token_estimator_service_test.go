package service

import "testing"

func TestTokenEstimatorEstimate(t *testing.T) {
	estimator := NewTokenEstimatorService()
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "   \n\t ", want: 0},
		// 2 words, no specials: ceil(2.6) = 3
		{name: "plain words", text: "hello world", want: 3},
		// 3 words, '=' and ';': ceil(3.9 + 0.6) = 5
		{name: "assignment", text: "a = b;", want: 5},
		// 1 word, '(' and ')': ceil(1.3 + 0.6) = 2
		{name: "call", text: "fn(x)", want: 2},
		// specials counted before trimming does not matter, words after
		{name: "padded", text: "  fn(x)  ", want: 2},
		// 3 words, 7 specials ( ) { } = + ; : ceil(3.9 + 2.1) = 6
		{name: "code-ish", text: "f(x){ y=x+1; }", want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimator.Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

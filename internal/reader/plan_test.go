package reader

import "testing"

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		pages   int
		quizzes int
		want    []int
	}{
		{name: "spread", pages: 10, quizzes: 3, want: []int{4, 8, 9}},
		{name: "no pages", pages: 0, quizzes: 5, want: []int{}},
		{name: "no quizzes", pages: 5, quizzes: 0, want: []int{}},
		{name: "negative quizzes", pages: 5, quizzes: -2, want: []int{}},
		{name: "single quiz", pages: 10, quizzes: 1, want: []int{9}},
		{name: "single page", pages: 1, quizzes: 1, want: []int{0}},
		{name: "more quizzes than pages", pages: 3, quizzes: 5, want: []int{1, 2, 2, 2, 2}},
		{name: "even split", pages: 8, quizzes: 4, want: []int{2, 4, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.pages, tt.quizzes)
			if len(got) != len(tt.want) {
				t.Fatalf("Plan(%d, %d) = %v, want %v", tt.pages, tt.quizzes, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Plan(%d, %d) = %v, want %v", tt.pages, tt.quizzes, got, tt.want)
				}
			}
		})
	}
}

package reader

// MaxQuizzes is the largest quiz count a book may be planned with.
const MaxQuizzes = 20

// Plan returns the page indices at which a quiz is offered. Indices are
// spread every ceil(totalPages/quizCount) pages and clamped to the last page,
// so a large quizCount yields repeated indices.
func Plan(totalPages, quizCount int) []int {
	if totalPages <= 0 || quizCount <= 0 {
		return []int{}
	}
	pagesPerQuiz := (totalPages + quizCount - 1) / quizCount
	if pagesPerQuiz < 1 {
		pagesPerQuiz = 1
	}
	positions := make([]int, 0, quizCount)
	for n := 1; n <= quizCount; n++ {
		positions = append(positions, min(n*pagesPerQuiz, totalPages-1))
	}
	return positions
}

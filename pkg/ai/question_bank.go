package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// QuestionBank serves questions from a fixed in-memory set. It is the default
// generator when no model provider is configured.
type QuestionBank struct {
	mu        sync.Mutex
	rng       *rand.Rand
	questions map[QuestionType][]Question
}

// NewQuestionBank builds a bank over the built-in questions. A nil rng seeds
// one from the clock.
func NewQuestionBank(rng *rand.Rand) *QuestionBank {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionBank{rng: rng, questions: defaultQuestions()}
}

// Generate picks distinct questions of the requested type at random. It never
// returns more questions than the bank holds for that type.
func (b *QuestionBank) Generate(ctx context.Context, req GenerateRequest) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool, ok := b.questions[req.Type]
	if !ok || len(pool) == 0 {
		return nil, ErrUnsupportedQuestionType
	}

	count := normalizeCount(req.Count)
	if count > len(pool) {
		count = len(pool)
	}

	b.mu.Lock()
	order := b.rng.Perm(len(pool))
	b.mu.Unlock()

	picked := make([]Question, 0, count)
	for _, idx := range order[:count] {
		q := pool[idx]
		q.Options = append([]string(nil), q.Options...)
		picked = append(picked, q)
	}

	return picked, nil
}

func defaultQuestions() map[QuestionType][]Question {
	return map[QuestionType][]Question{
		QuestionMCQ: {
			{Type: QuestionMCQ, Question: "What is the time complexity of binary search algorithm?", Options: []string{"O(n)", "O(log n)", "O(n²)", "O(1)"}, CorrectOption: "B", Marks: 2},
			{Type: QuestionMCQ, Question: "Which of the following is not a JavaScript data type?", Options: []string{"String", "Boolean", "Float", "Undefined"}, CorrectOption: "C", Marks: 1},
			{Type: QuestionMCQ, Question: "What does CSS stand for?", Options: []string{"Computer Style Sheets", "Cascading Style Sheets", "Creative Style Sheets", "Colorful Style Sheets"}, CorrectOption: "B", Marks: 1},
			{Type: QuestionMCQ, Question: "Which HTTP method is used to update existing data?", Options: []string{"GET", "POST", "PUT", "DELETE"}, CorrectOption: "C", Marks: 2},
		},
		QuestionLong: {
			{Type: QuestionLong, Question: "Explain the concept of Object-Oriented Programming and its four main principles. Provide examples for each principle.", Marks: 10},
			{Type: QuestionLong, Question: "Describe the differences between SQL and NoSQL databases. When would you choose one over the other?", Marks: 8},
			{Type: QuestionLong, Question: "What is the purpose of version control systems? Explain the benefits of using Git in software development.", Marks: 6},
			{Type: QuestionLong, Question: "Discuss the importance of responsive web design and explain three key techniques to achieve it.", Marks: 8},
		},
		QuestionCoding: {
			{Type: QuestionCoding, Question: "Write a function that finds the maximum element in an array of integers. The function should handle edge cases like empty arrays.", ExpectedOutput: "Function should return the maximum number in the array, or handle empty array appropriately", Marks: 5},
			{Type: QuestionCoding, Question: "Implement a function that checks if a given string is a palindrome. Ignore case sensitivity and spaces.", ExpectedOutput: "Function should return true for palindromes like 'A man a plan a canal Panama', false otherwise", Marks: 6},
			{Type: QuestionCoding, Question: "Create a function that calculates the factorial of a given number using recursion.", ExpectedOutput: "Function should return n! for positive integers, handle edge cases for 0 and negative numbers", Marks: 4},
			{Type: QuestionCoding, Question: "Write a function that merges two sorted arrays into a single sorted array without using built-in sort methods.", ExpectedOutput: "Function should efficiently merge [1,3,5] and [2,4,6] into [1,2,3,4,5,6]", Marks: 7},
		},
	}
}

package qabank

import "github.com/google/uuid"

// DefaultBank returns the starter questions, each with a fresh id.
func DefaultBank() []Question {
	return []Question{
		{
			ID:          uuid.New().String(),
			Type:        TypeMCQ,
			Question:    "What is the time complexity of binary search on a sorted array?",
			Options:     []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"},
			Answer:      "O(log n)",
			Explanation: "Binary search halves the search space each step.",
			Topic:       "DSA",
			Difficulty:  DifficultyEasy,
		},
		{
			ID:          uuid.New().String(),
			Type:        TypeMCQ,
			Question:    "Which HTTP method is idempotent by design?",
			Options:     []string{"POST", "PATCH", "PUT", "CONNECT"},
			Answer:      "PUT",
			Explanation: "Multiple PUTs with the same payload result in the same state.",
			Topic:       "Web",
			Difficulty:  DifficultyMedium,
		},
		{
			ID:          uuid.New().String(),
			Type:        TypeShort,
			Question:    "Name the ACID property that ensures a transaction's changes are permanent.",
			Answer:      "Durability",
			Explanation: "Once committed, changes survive failures.",
			Topic:       "DBMS",
			Difficulty:  DifficultyEasy,
		},
		{
			ID:          uuid.New().String(),
			Type:        TypeMCQ,
			Question:    "In Go, which keyword starts a lightweight thread?",
			Options:     []string{"thread", "go", "spawn", "async"},
			Answer:      "go",
			Explanation: "The 'go' keyword starts a goroutine.",
			Topic:       "Golang",
			Difficulty:  DifficultyEasy,
		},
	}
}

package model

import "time"

// Result is the scored outcome of one student's single attempt at one
// test. Exactly one result may exist per (StudentCode, TestID) pair; a
// result is never mutated and is deleted only when its test is deleted.
type Result struct {
	StudentCode string    `json:"studentCode"`
	TestID      string    `json:"testId"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Unanswered  int       `json:"unanswered"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	Timestamp   time.Time `json:"timestamp"`
}

// AnswerRequest records or replaces the selected option for a question
// during an in-progress attempt.
type AnswerRequest struct {
	QuestionIndex int `json:"question_index" binding:"min=0"`
	OptionIndex   int `json:"option_index" binding:"min=0"`
}

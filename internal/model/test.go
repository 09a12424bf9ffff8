package model

// Option count bounds per question.
const (
	MinOptions = 2
	MaxOptions = 6
)

// Test is a multiple-choice test definition. JSON tags match the
// stored layout from older deployments (timeLimit in minutes, camelCase).
type Test struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Instructions      string     `json:"instructions"`
	TimeLimit         int        `json:"timeLimit"`
	PassingPercentage int        `json:"passingPercentage"`
	Questions         []Question `json:"questions"`
}

// Question is a single multiple-choice question. CorrectAnswer is an
// index into Options and is always within bounds for persisted tests.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// SaveTestRequest is the payload for creating or replacing a test
// definition. Cross-field checks (correct answer within options) are
// enforced by the test service on top of the binding tags.
type SaveTestRequest struct {
	Title             string            `json:"title" binding:"required,min=1,max=255"`
	Instructions      string            `json:"instructions" binding:"required,min=1"`
	TimeLimit         int               `json:"timeLimit" binding:"required,min=1,max=480"`
	PassingPercentage int               `json:"passingPercentage" binding:"required,min=1,max=100"`
	Questions         []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuestionRequest is one question inside a SaveTestRequest.
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=6,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" binding:"min=0"`
}

// Definition converts the request into a Test (without an ID).
func (r *SaveTestRequest) Definition() *Test {
	questions := make([]Question, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return &Test{
		Title:             r.Title,
		Instructions:      r.Instructions,
		TimeLimit:         r.TimeLimit,
		PassingPercentage: r.PassingPercentage,
		Questions:         questions,
	}
}

// TestSummary is the listing view of a test (dashboards, admin list).
type TestSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	QuestionCount     int    `json:"questionCount"`
	TimeLimit         int    `json:"timeLimit"`
	PassingPercentage int    `json:"passingPercentage"`
}

// Summary builds the listing view for a test.
func (t *Test) Summary() TestSummary {
	return TestSummary{
		ID:                t.ID,
		Title:             t.Title,
		QuestionCount:     len(t.Questions),
		TimeLimit:         t.TimeLimit,
		PassingPercentage: t.PassingPercentage,
	}
}

// QuestionForStudent is a question with the correct answer stripped,
// safe to send to a student taking the test.
type QuestionForStudent struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Paper returns the questions with correct answers stripped.
func (t *Test) Paper() []QuestionForStudent {
	paper := make([]QuestionForStudent, len(t.Questions))
	for i, q := range t.Questions {
		paper[i] = QuestionForStudent{Text: q.Text, Options: q.Options}
	}
	return paper
}

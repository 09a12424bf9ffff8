package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to record a single answer.
type AnswerRequest struct {
	Action        Action `json:"action"`
	QuestionIndex int    `json:"question_index"`
	OptionIndex   int    `json:"option_index"`
}

// SubmitRequest is sent by the client to finish and grade the test.
type SubmitRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventAck    Event = "ack"
	EventTick   Event = "tick"
	EventGraded Event = "graded"
	EventPong   Event = "pong"
)

// TickResponse is pushed every timer interval while the test runs.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

type AckResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

// GradedResponse is pushed once the attempt is scored, whether the
// student submitted or the timer expired.
type GradedResponse struct {
	Event      Event `json:"event"`
	Correct    int   `json:"correct"`
	Incorrect  int   `json:"incorrect"`
	Unanswered int   `json:"unanswered"`
	Percentage int   `json:"percentage"`
	Passed     bool  `json:"passed"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// Package scoring computes the outcome of a finished test attempt. It
// is pure: no storage, no clock, no side effects.
package scoring

import (
	"math"

	"github.com/blacksiege/stms-backend/internal/model"
)

// Outcome is the scored result of one attempt.
type Outcome struct {
	Correct    int  `json:"correct"`
	Incorrect  int  `json:"incorrect"`
	Unanswered int  `json:"unanswered"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// Options tune the classification of skipped questions.
type Options struct {
	// TrackUnanswered counts skipped questions in their own bucket.
	//
	// The legacy behavior (false) folds skipped questions into
	// "incorrect" and derives unanswered as total-correct-incorrect,
	// which is therefore always zero. That arithmetic is kept as the
	// default on purpose: results must stay comparable with the ones
	// persisted by older deployments.
	TrackUnanswered bool
}

// Score classifies every question index of the test against the
// submitted answers (question index -> selected option index) and
// derives the percentage and pass/fail outcome.
//
// The percentage is the half-up rounding of correct/total*100, and
// passing means percentage >= the test's passing percentage. Correct +
// incorrect + unanswered always equals the question count.
func Score(test *model.Test, answers map[int]int, opts Options) Outcome {
	var correct, incorrect, unanswered int

	for i, q := range test.Questions {
		selected, answered := answers[i]
		switch {
		case answered && selected == q.CorrectAnswer:
			correct++
		case !answered && opts.TrackUnanswered:
			unanswered++
		default:
			incorrect++
		}
	}

	total := len(test.Questions)
	if !opts.TrackUnanswered {
		// Always zero; spelled out to mirror the legacy computation.
		unanswered = total - correct - incorrect
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return Outcome{
		Correct:    correct,
		Incorrect:  incorrect,
		Unanswered: unanswered,
		Percentage: percentage,
		Passed:     percentage >= test.PassingPercentage,
	}
}

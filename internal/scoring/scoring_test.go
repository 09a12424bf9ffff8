package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blacksiege/stms-backend/internal/model"
)

func threeQuestionTest(passing int) *model.Test {
	return &model.Test{
		ID:                "1700000000000",
		Title:             "Fractions",
		TimeLimit:         10,
		PassingPercentage: passing,
		Questions: []model.Question{
			{Text: "q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
			{Text: "q2", Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Text: "q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
		},
	}
}

func TestScorePartialAnswers(t *testing.T) {
	test := threeQuestionTest(60)

	// One question skipped entirely; it counts as incorrect by default.
	outcome := Score(test, map[int]int{0: 1, 2: 2}, Options{})

	assert.Equal(t, 2, outcome.Correct)
	assert.Equal(t, 1, outcome.Incorrect)
	assert.Equal(t, 0, outcome.Unanswered)
	assert.Equal(t, 67, outcome.Percentage)
	assert.True(t, outcome.Passed)
}

func TestScoreTrackUnanswered(t *testing.T) {
	test := threeQuestionTest(60)

	outcome := Score(test, map[int]int{0: 1, 2: 2}, Options{TrackUnanswered: true})

	assert.Equal(t, 2, outcome.Correct)
	assert.Equal(t, 0, outcome.Incorrect)
	assert.Equal(t, 1, outcome.Unanswered)
	assert.Equal(t, 67, outcome.Percentage)
}

func TestScoreAllCorrect(t *testing.T) {
	test := threeQuestionTest(100)

	outcome := Score(test, map[int]int{0: 1, 1: 0, 2: 2}, Options{})

	assert.Equal(t, Outcome{Correct: 3, Percentage: 100, Passed: true}, outcome)
}

func TestScoreNoAnswers(t *testing.T) {
	test := threeQuestionTest(60)

	outcome := Score(test, map[int]int{}, Options{})

	assert.Equal(t, 0, outcome.Correct)
	assert.Equal(t, 3, outcome.Incorrect)
	assert.Equal(t, 0, outcome.Percentage)
	assert.False(t, outcome.Passed)
}

func TestScoreRoundsHalfUp(t *testing.T) {
	test := &model.Test{
		PassingPercentage: 50,
		Questions: []model.Question{
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
		},
	}

	// 5/8 = 62.5, rounds to 63.
	outcome := Score(test, map[int]int{0: 0, 1: 0, 2: 0, 3: 0, 4: 0}, Options{})
	assert.Equal(t, 63, outcome.Percentage)
	assert.True(t, outcome.Passed)
}

func TestScoreWrongAnswerIsIncorrectEitherWay(t *testing.T) {
	test := threeQuestionTest(60)

	for _, opts := range []Options{{}, {TrackUnanswered: true}} {
		outcome := Score(test, map[int]int{0: 0, 1: 1, 2: 0}, opts)
		assert.Equal(t, 0, outcome.Correct)
		assert.Equal(t, 3, outcome.Incorrect)
		assert.Equal(t, 0, outcome.Unanswered)
		assert.False(t, outcome.Passed)
	}
}

func TestScoreEmptyTest(t *testing.T) {
	test := &model.Test{PassingPercentage: 60}

	outcome := Score(test, nil, Options{})

	assert.Equal(t, 0, outcome.Percentage)
	assert.False(t, outcome.Passed)
}

func TestScoreBucketsSumToQuestionCount(t *testing.T) {
	test := threeQuestionTest(60)

	for _, answers := range []map[int]int{
		nil,
		{0: 1},
		{0: 1, 1: 1},
		{0: 1, 1: 0, 2: 2},
	} {
		for _, opts := range []Options{{}, {TrackUnanswered: true}} {
			outcome := Score(test, answers, opts)
			assert.Equal(t, len(test.Questions), outcome.Correct+outcome.Incorrect+outcome.Unanswered)
		}
	}
}

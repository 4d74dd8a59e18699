package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAnswer(t *testing.T) {
	freeText := HomeworkQuestion{ID: 1, Text: "Say hello", Answer: "Salem"}

	assert.True(t, freeText.CheckAnswer("salem"))
	assert.True(t, freeText.CheckAnswer("  SALEM  "))
	assert.False(t, freeText.CheckAnswer("nan"))

	choice := HomeworkQuestion{ID: 2, Text: "Pick", Answer: "salem", Options: []string{"salem", "nan"}}

	assert.True(t, choice.CheckAnswer("salem"))
	assert.False(t, choice.CheckAnswer("SALEM"), "option answers match exactly")
}

func TestGrade(t *testing.T) {
	hw := &Homework{
		ID:       1,
		LessonID: 2,
		Questions: []HomeworkQuestion{
			{ID: 1, Text: "a", Answer: "salem"},
			{ID: 2, Text: "b", Answer: "nan", Options: []string{"nan", "su"}},
			{ID: 3, Text: "c", Answer: "su"},
		},
	}

	score, total := hw.Grade(map[int64]string{
		1: " Salem ",
		2: "nan",
		3: "uy",
	})

	assert.Equal(t, 2, score)
	assert.Equal(t, 3, total)

	// Unanswered questions count against the score.
	score, _ = hw.Grade(map[int64]string{1: "salem"})
	assert.Equal(t, 1, score)
}

func TestNewHomeworkSubmission(t *testing.T) {
	sub := NewHomeworkSubmission(7, 1, 3, 3)
	assert.True(t, sub.Passed)
	assert.False(t, sub.SubmittedAt.IsZero())

	sub = NewHomeworkSubmission(7, 1, 2, 3)
	assert.False(t, sub.Passed)

	sub = NewHomeworkSubmission(7, 1, 0, 0)
	assert.False(t, sub.Passed, "an empty homework cannot be passed")
}

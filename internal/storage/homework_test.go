package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeworkProgress(t *testing.T) {
	progress := NewHomeworkProgress()

	_, ok := progress.GetCurrentQuestion(7)
	assert.False(t, ok)

	progress.SetCurrentQuestion(7, 1, 10)
	ptr, ok := progress.GetCurrentQuestion(7)
	require.True(t, ok)
	assert.Equal(t, HomeworkPointer{HomeworkID: 1, QuestionID: 10}, ptr)

	progress.SetAnswer(7, 10, "salem")
	progress.SetAnswer(7, 11, "su")
	progress.SetAnswer(7, 10, "nan") // latest answer wins

	answers := progress.GetAnswers(7)
	assert.Equal(t, map[int64]string{10: "nan", 11: "su"}, answers)

	// Mutating the returned map must not touch the tracker.
	answers[12] = "uy"
	assert.Len(t, progress.GetAnswers(7), 2)

	progress.SetQuestionMessage(7, 700, 42)
	msg, ok := progress.GetQuestionMessage(7)
	require.True(t, ok)
	assert.Equal(t, QuestionMessage{ChatID: 700, MessageID: 42}, msg)

	progress.ClearState(7)
	_, ok = progress.GetCurrentQuestion(7)
	assert.False(t, ok)
	assert.Empty(t, progress.GetAnswers(7))
	_, ok = progress.GetQuestionMessage(7)
	assert.False(t, ok)
}

func TestHomeworkProgressIsolatesUsers(t *testing.T) {
	progress := NewHomeworkProgress()

	progress.SetCurrentQuestion(7, 1, 10)
	progress.SetCurrentQuestion(8, 2, 20)
	progress.SetAnswer(7, 10, "salem")

	progress.ClearState(7)

	ptr, ok := progress.GetCurrentQuestion(8)
	require.True(t, ok)
	assert.Equal(t, int64(2), ptr.HomeworkID)
	assert.Empty(t, progress.GetAnswers(7))
}

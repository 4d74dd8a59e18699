package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

func newTestDriver(t *testing.T) (*SessionDriver, *fakeFlowStateRepo, *fakeCardRepo) {
	t.Helper()

	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	scheduler := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	stateRepo := newFakeFlowStateRepo()
	flows := NewFlowService(stateRepo)

	return NewSessionDriver(flows, scheduler), stateRepo, cards
}

func driverSession() *entities.SessionPayload {
	return &entities.SessionPayload{
		Questions: []entities.Question{
			{
				ID:      "q-1",
				Source:  entities.QuestionSource{Type: entities.SourceVocabulary, RefID: 1},
				Prompt:  "hello",
				Answer:  "salem",
				Options: []string{"salem", "nan"},
			},
			{
				ID:     "q-2",
				Source: entities.QuestionSource{Type: entities.SourceHomework, RefID: 5},
				Prompt: "How do you greet someone?",
				Answer: "salem",
			},
		},
	}
}

func TestDriverStartReturnsFirstQuestion(t *testing.T) {
	driver, _, _ := newTestDriver(t)

	question, err := driver.Start(context.Background(), 7, entities.StateExercise, driverSession())
	require.NoError(t, err)
	assert.Equal(t, "q-1", question.ID)

	current, err := driver.CurrentQuestion(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "q-1", current.ID)
}

func TestDriverAnswerAdvancesAndFeedsScheduler(t *testing.T) {
	driver, _, cards := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.Start(ctx, 7, entities.StateReview, driverSession())
	require.NoError(t, err)

	result, err := driver.Answer(ctx, 7, "salem")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.False(t, result.Done)
	require.NotNil(t, result.Next)
	assert.Equal(t, "q-2", result.Next.ID)

	// The vocabulary answer must have produced a review card.
	card, err := cards.Get(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, card.Stage)
}

func TestDriverHomeworkAnswerSkipsScheduler(t *testing.T) {
	driver, _, cards := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.Start(ctx, 7, entities.StateReview, driverSession())
	require.NoError(t, err)

	_, err = driver.Answer(ctx, 7, "salem")
	require.NoError(t, err)

	// Second question is homework-derived; answering it must not touch cards.
	result, err := driver.Answer(ctx, 7, "wrong")
	require.NoError(t, err)
	assert.False(t, result.Correct)

	assert.Len(t, cards.cards, 1)
	_, err = cards.Get(ctx, 7, 5)
	assert.Error(t, err)
}

func TestDriverCompletionClearsStateAndScores(t *testing.T) {
	driver, stateRepo, _ := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.Start(ctx, 7, entities.StateExercise, driverSession())
	require.NoError(t, err)

	_, err = driver.Answer(ctx, 7, "salem")
	require.NoError(t, err)

	result, err := driver.Answer(ctx, 7, "  SALEM  ")
	require.NoError(t, err)

	assert.True(t, result.Correct, "free-text answers are normalized before comparison")
	assert.True(t, result.Done)
	assert.Nil(t, result.Next)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 2, result.Total)

	_, err = stateRepo.Get(ctx, 7)
	assert.Error(t, err, "a finished session must not linger in flow state")
}

func TestDriverMultipleChoiceIsExact(t *testing.T) {
	driver, _, _ := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.Start(ctx, 7, entities.StateExercise, driverSession())
	require.NoError(t, err)

	// Case variations do not match an option.
	result, err := driver.Answer(ctx, 7, "SALEM")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, "salem", result.CorrectAnswer)
}

func TestDriverAnswerWithoutSession(t *testing.T) {
	driver, _, _ := newTestDriver(t)

	_, err := driver.Answer(context.Background(), 7, "salem")
	assert.ErrorIs(t, err, ErrNothingToResume)
}

func TestDriverMidSessionSurvivesReload(t *testing.T) {
	driver, stateRepo, _ := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.Start(ctx, 7, entities.StateReview, driverSession())
	require.NoError(t, err)

	_, err = driver.Answer(ctx, 7, "nan")
	require.NoError(t, err)

	// A fresh driver over the same storage picks up where the user left off.
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	reloaded := NewSessionDriver(NewFlowService(stateRepo), newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons))

	question, err := reloaded.CurrentQuestion(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "q-2", question.ID)
}

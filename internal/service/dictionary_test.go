package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

func newTestDictionaryService() (*DictionaryService, *fakeFlowStateRepo, *fakeDictionaryRepo) {
	vocab, _ := testVocabulary()
	stateRepo := newFakeFlowStateRepo()
	dict := newFakeDictionaryRepo()
	svc := NewDictionaryService(vocab, dict, NewFlowService(stateRepo))
	return svc, stateRepo, dict
}

func TestDictionarySearchFlow(t *testing.T) {
	svc, stateRepo, _ := newTestDictionaryService()
	ctx := context.Background()

	require.NoError(t, svc.StartSearch(ctx, 7))

	state, err := stateRepo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.StateDictionarySearch, state.State)

	items, err := svc.Search(ctx, 7, "  hello  ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "salem", items[0].Translation)

	// The search flow ends with the query.
	_, err = stateRepo.Get(ctx, 7)
	assert.Error(t, err)
}

func TestDictionarySearchEmptyQuery(t *testing.T) {
	svc, _, _ := newTestDictionaryService()

	_, err := svc.Search(context.Background(), 7, "   ")
	assert.ErrorIs(t, err, ErrEmptyDictionaryInput)
}

func TestDictionaryAddTwoSteps(t *testing.T) {
	svc, stateRepo, dict := newTestDictionaryService()
	ctx := context.Background()

	require.NoError(t, svc.StartAdd(ctx, 7))

	// First message supplies the word.
	entry, err := svc.AddStep(ctx, 7, &entities.DictionaryAddPayload{}, " tandoor ")
	require.NoError(t, err)
	assert.Nil(t, entry, "no entry until the translation arrives")

	state, err := stateRepo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.StateDictionaryAdd, state.State)

	// Second message supplies the translation.
	entry, err = svc.AddStep(ctx, 7, &entities.DictionaryAddPayload{Word: "tandoor"}, "clay oven")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "tandoor", entry.Word)
	assert.Equal(t, "clay oven", entry.Translation)
	assert.NotZero(t, entry.ID)

	_, err = stateRepo.Get(ctx, 7)
	assert.Error(t, err, "the add flow ends with the entry")

	entries, err := dict.GetByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDictionaryAddEmptyInput(t *testing.T) {
	svc, _, _ := newTestDictionaryService()

	_, err := svc.AddStep(context.Background(), 7, &entities.DictionaryAddPayload{}, "   ")
	assert.ErrorIs(t, err, ErrEmptyDictionaryInput)
}

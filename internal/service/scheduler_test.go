package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var schedulerNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestScheduler(cards *fakeCardRepo, vocab *fakeVocabRepo, favs *fakeFavoriteRepo, lessons *fakeLessonRepo) *Scheduler {
	s := NewScheduler(cards, vocab, favs, lessons)
	s.now = func() time.Time { return schedulerNow }
	return s
}

func testVocabulary() (*fakeVocabRepo, *fakeLessonRepo) {
	items := []*entities.VocabularyItem{
		{ID: 1, LessonID: 1, Word: "hello", Translation: "salem"},
		{ID: 2, LessonID: 1, Word: "bread", Translation: "nan"},
		{ID: 3, LessonID: 2, Word: "water", Translation: "su"},
		{ID: 4, LessonID: 2, Word: "house", Translation: "uy"},
		{ID: 5, LessonID: 3, Word: "road", Translation: "jol"},
	}
	vocab := newFakeVocabRepo(items, map[int64]int{1: 1, 2: 2, 3: 3})
	lessons := newFakeLessonRepo(
		&entities.Lesson{ID: 1, Order: 1, Title: "Basics"},
		&entities.Lesson{ID: 2, Order: 2, Title: "Home"},
		&entities.Lesson{ID: 3, Order: 3, Title: "Travel"},
	)
	return vocab, lessons
}

func TestUpdateCardCreatesOnFirstAnswer(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	card, err := s.UpdateCard(context.Background(), 7, 1, true)
	require.NoError(t, err)

	assert.Equal(t, 1, card.Stage)
	assert.Equal(t, 1, card.TotalAttempts)
	assert.Equal(t, schedulerNow.AddDate(0, 0, 2), card.NextReviewAt)

	stored, err := cards.Get(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stage)
}

func TestUpdateCardFirstIncorrectStaysAtBottom(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	card, err := s.UpdateCard(context.Background(), 7, 1, false)
	require.NoError(t, err)

	assert.Equal(t, 0, card.Stage)
	assert.Equal(t, schedulerNow.AddDate(0, 0, 1), card.NextReviewAt)
}

func TestUpdateCardMovesExistingStage(t *testing.T) {
	tests := []struct {
		name      string
		stage     int
		correct   bool
		wantStage int
		wantDays  int
	}{
		{"correct advances", 2, true, 3, 5},
		{"incorrect regresses", 2, false, 1, 2},
		{"correct clamps at top", 6, true, 6, 14},
		{"incorrect clamps at bottom", 0, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := newFakeCardRepo()
			require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
				UserID: 7, VocabularyID: 1, Stage: tt.stage, TotalAttempts: 3,
			}))

			vocab, lessons := testVocabulary()
			s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

			card, err := s.UpdateCard(context.Background(), 7, 1, tt.correct)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStage, card.Stage)
			assert.Equal(t, schedulerNow.AddDate(0, 0, tt.wantDays), card.NextReviewAt)
		})
	}
}

func TestBuildQueueOrdersTiers(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	favs := newFakeFavoriteRepo()

	// Two due cards, item 4 due earlier than item 1.
	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 4, NextReviewAt: schedulerNow.AddDate(0, 0, -3),
	}))
	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 1, NextReviewAt: schedulerNow.AddDate(0, 0, -1),
	}))
	// A card not yet due must be left out.
	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 5, NextReviewAt: schedulerNow.AddDate(0, 0, 2),
	}))

	// Favorites overlap with a due card; the duplicate must not repeat.
	require.NoError(t, favs.Add(context.Background(), 7, 4))
	require.NoError(t, favs.Add(context.Background(), 7, 2))

	s := newTestScheduler(cards, vocab, favs, lessons)

	// Current lesson 3, so earlier-lesson vocabulary is items 1..4.
	queue, err := s.BuildQueue(context.Background(), 7, 10, 3)
	require.NoError(t, err)

	ids := make([]int64, 0, len(queue))
	for _, item := range queue {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{4, 1, 2, 3}, ids)
}

func TestBuildQueueRespectsLimit(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()
	s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	queue, err := s.BuildQueue(context.Background(), 7, 2, 3)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, int64(1), queue[0].ID)
	assert.Equal(t, int64(2), queue[1].ID)
}

func TestBuildQueueSkipsRemovedVocabulary(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()

	// A card whose vocabulary no longer exists.
	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 99, NextReviewAt: schedulerNow.AddDate(0, 0, -1),
	}))

	s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	queue, err := s.BuildQueue(context.Background(), 7, 3, 1)
	require.NoError(t, err)
	for _, item := range queue {
		assert.NotEqual(t, int64(99), item.ID)
	}
}

func TestCountDue(t *testing.T) {
	cards := newFakeCardRepo()
	vocab, lessons := testVocabulary()

	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 1, NextReviewAt: schedulerNow.AddDate(0, 0, -1),
	}))
	require.NoError(t, cards.Upsert(context.Background(), &entities.ReviewCard{
		UserID: 7, VocabularyID: 2, NextReviewAt: schedulerNow.AddDate(0, 0, 5),
	}))

	s := newTestScheduler(cards, vocab, newFakeFavoriteRepo(), lessons)

	due, err := s.CountDue(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, due)
}

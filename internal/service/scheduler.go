package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
)

// Scheduler owns spaced-repetition review cards: it records answers and
// decides which vocabulary is due for review.
type Scheduler struct {
	cardRepo   CardRepository
	vocabRepo  VocabularyRepository
	favRepo    FavoriteRepository
	lessonRepo LessonRepository

	now func() time.Time
}

func NewScheduler(
	cardRepo CardRepository,
	vocabRepo VocabularyRepository,
	favRepo FavoriteRepository,
	lessonRepo LessonRepository,
) *Scheduler {
	return &Scheduler{
		cardRepo:   cardRepo,
		vocabRepo:  vocabRepo,
		favRepo:    favRepo,
		lessonRepo: lessonRepo,
		now:        time.Now,
	}
}

// UpdateCard records one answer for a vocabulary item: it loads the user's
// card (creating one on the first answer), moves the stage up or down, and
// schedules the next review from the stage interval table.
func (s *Scheduler) UpdateCard(ctx context.Context, userID, vocabularyID int64, correct bool) (*entities.ReviewCard, error) {
	card, err := s.cardRepo.Get(ctx, userID, vocabularyID)
	if err != nil && !errors.Is(err, repository.ErrCardNotFound) {
		return nil, fmt.Errorf("load card: %w", err)
	}

	if card == nil {
		card = entities.NewReviewCard(userID, vocabularyID)
	}

	card.Advance(correct, s.now())

	if err := s.cardRepo.Upsert(ctx, card); err != nil {
		return nil, fmt.Errorf("save card: %w", err)
	}

	return card, nil
}

// BuildQueue fills up to limit vocabulary items for a review session,
// concatenating three tiers in priority order and de-duplicating by
// vocabulary id:
//
//  1. due cards, soonest due first (ties by vocabulary id ascending);
//  2. the user's favorites, by vocabulary id ascending;
//  3. vocabulary from lessons strictly before the current one, by lesson
//     order and then vocabulary id.
//
// Fewer than limit items are returned only when the union of all three
// sources is smaller.
func (s *Scheduler) BuildQueue(ctx context.Context, userID int64, limit int, currentLessonID int64) ([]*entities.VocabularyItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, limit)
	queue := make([]*entities.VocabularyItem, 0, limit)

	// 1. Due cards.
	due, err := s.cardRepo.GetDue(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("get due cards: %w", err)
	}

	dueIDs := make([]int64, 0, len(due))
	for _, card := range due {
		dueIDs = append(dueIDs, card.VocabularyID)
	}

	items, err := s.itemsByIDs(ctx, dueIDs)
	if err != nil {
		return nil, err
	}
	for _, card := range due {
		if len(queue) >= limit {
			return queue, nil
		}
		item, ok := items[card.VocabularyID]
		if !ok {
			// The vocabulary behind the card was removed; skip it.
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		queue = append(queue, item)
	}

	// 2. Favorites.
	favIDs, err := s.favRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}

	items, err = s.itemsByIDs(ctx, favIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range favIDs {
		if len(queue) >= limit {
			return queue, nil
		}
		item, ok := items[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		queue = append(queue, item)
	}

	// 3. Vocabulary from earlier lessons.
	lesson, err := s.lessonRepo.GetByID(ctx, currentLessonID)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return queue, nil
		}
		return nil, fmt.Errorf("get current lesson: %w", err)
	}

	fresh, err := s.vocabRepo.GetForLessonsBefore(ctx, lesson.Order, limit)
	if err != nil {
		return nil, fmt.Errorf("get earlier vocabulary: %w", err)
	}
	for _, item := range fresh {
		if len(queue) >= limit {
			break
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		queue = append(queue, item)
	}

	return queue, nil
}

// CountDue returns how many cards are waiting for review right now.
func (s *Scheduler) CountDue(ctx context.Context, userID int64) (int, error) {
	return s.cardRepo.CountDue(ctx, userID, s.now())
}

func (s *Scheduler) itemsByIDs(ctx context.Context, ids []int64) (map[int64]*entities.VocabularyItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := s.vocabRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get vocabulary: %w", err)
	}

	byID := make(map[int64]*entities.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

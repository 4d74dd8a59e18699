package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

// exerciseItemCount is how many vocabulary items a lesson warm-up covers.
const exerciseItemCount = 5

// BuildLessonExercises builds the warm-up for a single lesson: one
// translate-the-word question per vocabulary item with distractors taken from
// the same lesson. Option order is derived from the vocabulary id, so
// re-rendering a question is stable regardless of collection iteration order.
func (b *SessionBuilder) BuildLessonExercises(ctx context.Context, lessonID int64) (*entities.SessionPayload, error) {
	items, err := b.vocabRepo.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson vocabulary: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	translations := make([]string, 0, len(items))
	for _, item := range items {
		translations = append(translations, item.Translation)
	}

	count := min(len(items), exerciseItemCount)

	questions := make([]entities.Question, 0, count)
	for _, item := range items[:count] {
		rng := seededRand(item.ID)
		questions = append(questions, entities.Question{
			ID:        uuid.NewString(),
			Source:    entities.QuestionSource{Type: entities.SourceVocabulary, RefID: item.ID},
			Prompt:    fmt.Sprintf("Translate the word %q.", item.Word),
			Answer:    item.Translation,
			Options:   buildOptions(rng, item.Translation, translations),
			Direction: entities.DirectionForward,
		})
	}

	return &entities.SessionPayload{Questions: questions}, nil
}

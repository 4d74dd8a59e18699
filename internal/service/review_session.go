package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
)

// Difficulty selects the size of a review session.
type Difficulty string

const (
	DifficultyLight    Difficulty = "light"
	DifficultyStandard Difficulty = "standard"
	DifficultyIntense  Difficulty = "intense"
)

var difficultySizes = map[Difficulty]int{
	DifficultyLight:    10,
	DifficultyStandard: 20,
	DifficultyIntense:  30,
}

var ErrNoQuestionsAvailable = errors.New("no questions available")

// SessionBuilder precomputes whole quiz sessions: a review session, a
// learn-new-words session, or a single-lesson exercise. The entire question
// list including distractors and directions is generated up front so the
// session can be serialized as one payload.
type SessionBuilder struct {
	scheduler  *Scheduler
	vocabRepo  VocabularyRepository
	lessonRepo LessonRepository
	dictRepo   DictionaryRepository
	hwRepo     HomeworkRepository
	userRepo   UserRepository

	rng *rand.Rand
}

func NewSessionBuilder(
	scheduler *Scheduler,
	vocabRepo VocabularyRepository,
	lessonRepo LessonRepository,
	dictRepo DictionaryRepository,
	hwRepo HomeworkRepository,
	userRepo UserRepository,
) *SessionBuilder {
	return &SessionBuilder{
		scheduler:  scheduler,
		vocabRepo:  vocabRepo,
		lessonRepo: lessonRepo,
		dictRepo:   dictRepo,
		hwRepo:     hwRepo,
		userRepo:   userRepo,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildReviewSession assembles a review session of the tier's size from due
// cards, the user's personal dictionary and the current lesson's homework.
// Homework-derived questions are recall practice only; their source tag keeps
// them away from the scheduler.
func (b *SessionBuilder) BuildReviewSession(ctx context.Context, userID int64, difficulty Difficulty) (*entities.SessionPayload, error) {
	size, ok := difficultySizes[difficulty]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty: %s", difficulty)
	}

	user, err := b.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	// 1. Vocabulary questions from the review queue.
	queue, err := b.scheduler.BuildQueue(ctx, userID, size, user.CurrentLessonID)
	if err != nil {
		return nil, fmt.Errorf("build queue: %w", err)
	}

	// Distractors for every question come from the whole working set.
	words := make([]string, 0, len(queue))
	translations := make([]string, 0, len(queue))
	for _, item := range queue {
		words = append(words, item.Word)
		translations = append(translations, item.Translation)
	}

	questions := make([]entities.Question, 0, size)
	for _, item := range queue {
		questions = append(questions, b.vocabularyQuestion(
			entities.QuestionSource{Type: entities.SourceVocabulary, RefID: item.ID},
			item.Word, item.Translation,
			words, translations,
		))
	}

	// 2. Personal dictionary questions.
	if len(questions) < size {
		entries, err := b.dictRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get dictionary: %w", err)
		}
		for _, entry := range entries {
			if len(questions) >= size {
				break
			}
			questions = append(questions, b.vocabularyQuestion(
				entities.QuestionSource{Type: entities.SourceDictionary, RefID: entry.ID},
				entry.Word, entry.Translation,
				words, translations,
			))
		}
	}

	// 3. Homework recall questions from the current lesson, free text.
	if len(questions) < size {
		hw, err := b.hwRepo.GetByLesson(ctx, user.CurrentLessonID)
		if err != nil && !errors.Is(err, repository.ErrHomeworkNotFound) {
			return nil, fmt.Errorf("get homework: %w", err)
		}
		if hw != nil {
			for _, hq := range hw.Questions {
				if len(questions) >= size {
					break
				}
				questions = append(questions, entities.Question{
					ID:     uuid.NewString(),
					Source: entities.QuestionSource{Type: entities.SourceHomework, RefID: hq.ID},
					Prompt: hq.Text,
					Answer: hq.Answer,
				})
			}
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	b.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return &entities.SessionPayload{Questions: questions}, nil
}

// vocabularyQuestion builds one multiple-choice translation question with a
// randomly chosen direction.
func (b *SessionBuilder) vocabularyQuestion(
	source entities.QuestionSource,
	word, translation string,
	words, translations []string,
) entities.Question {
	direction := entities.DirectionForward
	if b.rng.Intn(2) == 1 {
		direction = entities.DirectionReverse
	}

	prompt, answer, candidates := word, translation, translations
	if direction == entities.DirectionReverse {
		prompt, answer, candidates = translation, word, words
	}

	return entities.Question{
		ID:        uuid.NewString(),
		Source:    source,
		Prompt:    prompt,
		Answer:    answer,
		Options:   buildOptions(b.rng, answer, candidates),
		Direction: direction,
	}
}

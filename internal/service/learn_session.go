package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

// learnVariant is one of the four question phrasings a learn session draws
// from. Each word gets exactly one forward and one reverse variant so it is
// reinforced twice in different directions.
type learnVariant int

const (
	variantForwardPick learnVariant = iota // show target word, pick the translation
	variantReversePick                     // show translation, pick the target word
	variantForwardMatch                    // "choose the matching translation" phrasing
	variantReverseMatch                    // "choose the matching word" phrasing
)

// BuildLearnSession selects wordCount words the user has never answered from
// lessons up to and including their current one and builds two multiple-choice
// questions per word. The combined list is shuffled.
func (b *SessionBuilder) BuildLearnSession(ctx context.Context, userID int64, wordCount int) (*entities.SessionPayload, error) {
	user, err := b.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	lesson, err := b.lessonRepo.GetByID(ctx, user.CurrentLessonID)
	if err != nil {
		return nil, fmt.Errorf("get current lesson: %w", err)
	}

	items, err := b.vocabRepo.GetUnseen(ctx, userID, lesson.Order, wordCount)
	if err != nil {
		return nil, fmt.Errorf("get unseen vocabulary: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	words := make([]string, 0, len(items))
	translations := make([]string, 0, len(items))
	for _, item := range items {
		words = append(words, item.Word)
		translations = append(translations, item.Translation)
	}

	questions := make([]entities.Question, 0, 2*len(items))
	for _, item := range items {
		forward := variantForwardPick
		if b.rng.Intn(2) == 1 {
			forward = variantForwardMatch
		}
		reverse := variantReversePick
		if b.rng.Intn(2) == 1 {
			reverse = variantReverseMatch
		}

		questions = append(questions,
			b.learnQuestion(item, forward, words, translations),
			b.learnQuestion(item, reverse, words, translations),
		)
	}

	b.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return &entities.SessionPayload{Questions: questions}, nil
}

func (b *SessionBuilder) learnQuestion(
	item *entities.VocabularyItem,
	variant learnVariant,
	words, translations []string,
) entities.Question {
	var prompt, answer string
	var candidates []string
	var direction entities.Direction

	switch variant {
	case variantForwardPick:
		prompt = fmt.Sprintf("What does %q mean?", item.Word)
		answer, candidates, direction = item.Translation, translations, entities.DirectionForward
	case variantForwardMatch:
		prompt = fmt.Sprintf("Choose the matching translation for %q.", item.Word)
		answer, candidates, direction = item.Translation, translations, entities.DirectionForward
	case variantReversePick:
		prompt = fmt.Sprintf("Which word means %q?", item.Translation)
		answer, candidates, direction = item.Word, words, entities.DirectionReverse
	case variantReverseMatch:
		prompt = fmt.Sprintf("Choose the word matching %q.", item.Translation)
		answer, candidates, direction = item.Word, words, entities.DirectionReverse
	}

	return entities.Question{
		ID:        uuid.NewString(),
		Source:    entities.QuestionSource{Type: entities.SourceVocabulary, RefID: item.ID},
		Prompt:    prompt,
		Answer:    answer,
		Options:   buildOptions(b.rng, answer, candidates),
		Direction: direction,
	}
}

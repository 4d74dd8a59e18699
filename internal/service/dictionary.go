package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

const searchLimit = 10

var ErrEmptyDictionaryInput = errors.New("empty dictionary input")

// DictionaryService covers the two dictionary flows: substring search over
// the shared vocabulary and adding custom word/translation pairs step by step.
type DictionaryService struct {
	vocabRepo VocabularyRepository
	dictRepo  DictionaryRepository
	flows     *FlowService
}

func NewDictionaryService(
	vocabRepo VocabularyRepository,
	dictRepo DictionaryRepository,
	flows *FlowService,
) *DictionaryService {
	return &DictionaryService{
		vocabRepo: vocabRepo,
		dictRepo:  dictRepo,
		flows:     flows,
	}
}

// StartSearch marks that the user's next message is a dictionary query.
func (s *DictionaryService) StartSearch(ctx context.Context, userID int64) error {
	return s.flows.Begin(ctx, userID, entities.StateDictionarySearch, entities.DictionarySearchPayload{})
}

// Search runs the query and ends the search flow.
func (s *DictionaryService) Search(ctx context.Context, userID int64, query string) ([]*entities.VocabularyItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyDictionaryInput
	}

	if _, err := s.flows.Abandon(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.vocabRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search vocabulary: %w", err)
	}

	return items, nil
}

// StartAdd begins the two-step add-custom-word flow: the bot first asks for
// the word, then for its translation.
func (s *DictionaryService) StartAdd(ctx context.Context, userID int64) error {
	return s.flows.Begin(ctx, userID, entities.StateDictionaryAdd, entities.DictionaryAddPayload{})
}

// AddStep consumes one message of the add flow. It returns the created entry
// once both halves arrived, nil while the flow still waits for the
// translation.
func (s *DictionaryService) AddStep(ctx context.Context, userID int64, payload *entities.DictionaryAddPayload, text string) (*entities.DictionaryEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDictionaryInput
	}

	if payload.Word == "" {
		// First step: remember the word and wait for its translation.
		err := s.flows.Begin(ctx, userID, entities.StateDictionaryAdd, entities.DictionaryAddPayload{Word: text})
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	entry := &entities.DictionaryEntry{
		UserID:      userID,
		Word:        payload.Word,
		Translation: text,
	}
	if err := s.dictRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if _, err := s.flows.Abandon(ctx, userID); err != nil {
		return nil, err
	}

	return entry, nil
}

// Entries lists the user's personal dictionary.
func (s *DictionaryService) Entries(ctx context.Context, userID int64) ([]*entities.DictionaryEntry, error) {
	return s.dictRepo.GetByUserID(ctx, userID)
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
)

// ErrNothingToResume means the user has no in-progress interaction, either
// because none was stored or because a stored payload could not be decoded
// and was discarded.
var ErrNothingToResume = errors.New("nothing to resume")

// DecodedFlow is the tagged union behind a stored flow state: exactly one of
// the variant fields is set, selected by State.
type DecodedFlow struct {
	State entities.StateTag

	Session          *entities.SessionPayload // exercise, review, learn_new_words
	DictionarySearch *entities.DictionarySearchPayload
	DictionaryAdd    *entities.DictionaryAddPayload
	HomeworkAnswer   *entities.HomeworkAnswerPayload
	Support          *entities.SupportMessagePayload
}

// FlowService persists and interprets per-user flow state. Payloads are
// decoded by explicit dispatch on the state tag; a payload that matches no
// registered shape for its tag is treated as corrupt and cleared, never
// surfaced as a failure.
type FlowService struct {
	stateRepo FlowStateRepository
}

func NewFlowService(stateRepo FlowStateRepository) *FlowService {
	return &FlowService{stateRepo: stateRepo}
}

// sessionTags are the interaction kinds whose payload is a SessionPayload.
var sessionTags = map[entities.StateTag]bool{
	entities.StateExercise:      true,
	entities.StateReview:        true,
	entities.StateLearnNewWords: true,
}

// Begin stores a new flow state, replacing whatever interaction was in
// progress before.
func (s *FlowService) Begin(ctx context.Context, userID int64, tag entities.StateTag, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	if err := s.stateRepo.Set(ctx, userID, tag, data); err != nil {
		return fmt.Errorf("set flow state: %w", err)
	}

	return nil
}

// SaveSession overwrites the stored session payload after a step. Set is an
// idempotent last-write-wins overwrite, so re-saving the same step is safe.
func (s *FlowService) SaveSession(ctx context.Context, userID int64, tag entities.StateTag, payload *entities.SessionPayload) error {
	if !sessionTags[tag] {
		return fmt.Errorf("state %q does not carry a session payload", tag)
	}
	return s.Begin(ctx, userID, tag, payload)
}

// Resume loads and decodes the user's current flow state.
// Returns ErrNothingToResume when no state is stored or the stored payload is
// unreadable (in which case it is cleared first).
func (s *FlowService) Resume(ctx context.Context, userID int64) (*DecodedFlow, error) {
	state, err := s.stateRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrFlowStateNotFound) {
			return nil, ErrNothingToResume
		}
		return nil, fmt.Errorf("get flow state: %w", err)
	}

	flow, err := decodeFlow(state)
	if err != nil {
		// Corrupt or stale payload: discard it and report nothing to resume.
		if _, clearErr := s.stateRepo.Clear(ctx, userID); clearErr != nil {
			return nil, fmt.Errorf("clear corrupt flow state: %w", clearErr)
		}
		return nil, ErrNothingToResume
	}

	return flow, nil
}

// Abandon drops the user's flow state and reports whether one existed.
// Called on completion, cancellation, and any unrelated action that implies
// the user walked away from the interaction.
func (s *FlowService) Abandon(ctx context.Context, userID int64) (bool, error) {
	cleared, err := s.stateRepo.Clear(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("clear flow state: %w", err)
	}
	return cleared, nil
}

// decodeFlow dispatches on the state tag to pick the payload shape.
func decodeFlow(state *entities.FlowState) (*DecodedFlow, error) {
	flow := &DecodedFlow{State: state.State}

	switch state.State {
	case entities.StateExercise, entities.StateReview, entities.StateLearnNewWords:
		session, err := decodeSession(state.State, state.Payload)
		if err != nil {
			return nil, err
		}
		flow.Session = session

	case entities.StateDictionarySearch:
		flow.DictionarySearch = &entities.DictionarySearchPayload{}
		if err := strictUnmarshal(state.Payload, flow.DictionarySearch); err != nil {
			return nil, err
		}

	case entities.StateDictionaryAdd:
		flow.DictionaryAdd = &entities.DictionaryAddPayload{}
		if err := strictUnmarshal(state.Payload, flow.DictionaryAdd); err != nil {
			return nil, err
		}

	case entities.StateHomeworkAnswer:
		flow.HomeworkAnswer = &entities.HomeworkAnswerPayload{}
		if err := strictUnmarshal(state.Payload, flow.HomeworkAnswer); err != nil {
			return nil, err
		}

	case entities.StateSupportMessage:
		flow.Support = &entities.SupportMessagePayload{}
		if err := strictUnmarshal(state.Payload, flow.Support); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown state tag %q", state.State)
	}

	return flow, nil
}

// sessionDecoder attempts to read one payload shape for a session tag.
type sessionDecoder func(data []byte) (*entities.SessionPayload, error)

// decodeSession tries the registered decoders for the tag in order: the
// current shape first, then any legacy shape still in the wild. The candidate
// list is deliberately short; entries are removed once pre-migration states
// have expired, and new entries mean new backward-compatibility debt.
func decodeSession(tag entities.StateTag, data []byte) (*entities.SessionPayload, error) {
	decoders := []sessionDecoder{decodeCurrentSession}
	if tag == entities.StateReview {
		decoders = append(decoders, decodeLegacyReviewSession)
	}

	var lastErr error
	for _, decode := range decoders {
		session, err := decode(data)
		if err == nil {
			return session, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("decode session payload for %q: %w", tag, lastErr)
}

func decodeCurrentSession(data []byte) (*entities.SessionPayload, error) {
	var session entities.SessionPayload
	if err := strictUnmarshal(data, &session); err != nil {
		return nil, err
	}
	if err := validateSession(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// legacyReviewPayload is the pre-direction review session shape. Questions
// carried the vocabulary id directly and options were stored under "variants".
type legacyReviewPayload struct {
	Questions []struct {
		VocabularyID int64    `json:"vocabulary_id"`
		Text         string   `json:"text"`
		Answer       string   `json:"answer"`
		Variants     []string `json:"variants,omitempty"`
	} `json:"questions"`
	Position int `json:"position"`
	Correct  int `json:"correct"`
}

// decodeLegacyReviewSession upgrades a legacy review payload to the current
// shape. Upgraded questions are treated as forward vocabulary questions.
func decodeLegacyReviewSession(data []byte) (*entities.SessionPayload, error) {
	var legacy legacyReviewPayload
	if err := strictUnmarshal(data, &legacy); err != nil {
		return nil, err
	}

	session := &entities.SessionPayload{
		Questions:    make([]entities.Question, 0, len(legacy.Questions)),
		CurrentIndex: legacy.Position,
		CorrectCount: legacy.Correct,
	}
	for _, q := range legacy.Questions {
		session.Questions = append(session.Questions, entities.Question{
			ID:        uuid.NewString(),
			Source:    entities.QuestionSource{Type: entities.SourceVocabulary, RefID: q.VocabularyID},
			Prompt:    q.Text,
			Answer:    q.Answer,
			Options:   q.Variants,
			Direction: entities.DirectionForward,
		})
	}

	if err := validateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func validateSession(session *entities.SessionPayload) error {
	if len(session.Questions) == 0 {
		return errors.New("session has no questions")
	}
	if session.CurrentIndex < 0 || session.CurrentIndex > len(session.Questions) {
		return fmt.Errorf("cursor %d out of range", session.CurrentIndex)
	}
	if session.CorrectCount < 0 || session.CorrectCount > len(session.Questions) {
		return fmt.Errorf("correct count %d out of range", session.CorrectCount)
	}
	for i, q := range session.Questions {
		if q.Prompt == "" || q.Answer == "" {
			return fmt.Errorf("question %d is incomplete", i)
		}
		switch q.Source.Type {
		case entities.SourceVocabulary, entities.SourceDictionary, entities.SourceHomework:
		default:
			return fmt.Errorf("question %d has unknown source %q", i, q.Source.Type)
		}
	}
	return nil
}

// strictUnmarshal decodes JSON rejecting unknown fields, so a payload written
// by a different shape fails loudly instead of half-filling the target.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

// AnswerResult is what the transport layer renders after one answered
// question.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string

	// Next is the question to show now, nil once the session is over.
	Next *entities.Question

	// Done is set when the last question was just answered; Score and Total
	// then hold the final result.
	Done  bool
	Score int
	Total int
}

// SessionDriver consumes a stored session payload one question at a time.
// After every answer the advanced payload is written back whole; finishing
// the last question clears the flow state and reports the score.
type SessionDriver struct {
	flows     *FlowService
	scheduler *Scheduler
}

func NewSessionDriver(flows *FlowService, scheduler *Scheduler) *SessionDriver {
	return &SessionDriver{flows: flows, scheduler: scheduler}
}

// Start stores a freshly built session and returns its first question.
func (d *SessionDriver) Start(ctx context.Context, userID int64, tag entities.StateTag, session *entities.SessionPayload) (*entities.Question, error) {
	if err := d.flows.SaveSession(ctx, userID, tag, session); err != nil {
		return nil, err
	}

	question, ok := session.Current()
	if !ok {
		return nil, ErrNoQuestionsAvailable
	}
	return &question, nil
}

// CurrentQuestion returns the question the user's in-progress session is
// waiting on. ErrNothingToResume means no session is stored.
func (d *SessionDriver) CurrentQuestion(ctx context.Context, userID int64) (*entities.Question, error) {
	_, session, err := d.resumeSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	question, ok := session.Current()
	if !ok {
		// A fully answered session should have been cleared; treat it as done.
		if _, err := d.flows.Abandon(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrNothingToResume
	}

	return &question, nil
}

// Answer checks the given answer against the current question, feeds the
// scheduler when the question's source calls for it, and advances the stored
// session.
func (d *SessionDriver) Answer(ctx context.Context, userID int64, answer string) (*AnswerResult, error) {
	tag, session, err := d.resumeSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	question, ok := session.Current()
	if !ok {
		if _, err := d.flows.Abandon(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrNothingToResume
	}

	correct := checkAnswer(question, answer)

	// Homework-derived questions are recall practice; only vocabulary and
	// personal-dictionary answers move review cards.
	switch question.Source.Type {
	case entities.SourceVocabulary, entities.SourceDictionary:
		if _, err := d.scheduler.UpdateCard(ctx, userID, question.Source.RefID, correct); err != nil {
			return nil, fmt.Errorf("update card: %w", err)
		}
	}

	session.Advance(correct)

	result := &AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.Answer,
	}

	if session.Done() {
		if _, err := d.flows.Abandon(ctx, userID); err != nil {
			return nil, err
		}
		result.Done = true
		result.Score = session.CorrectCount
		result.Total = session.Total()
		return result, nil
	}

	if err := d.flows.SaveSession(ctx, userID, tag, session); err != nil {
		return nil, err
	}

	next, _ := session.Current()
	result.Next = &next
	return result, nil
}

func (d *SessionDriver) resumeSession(ctx context.Context, userID int64) (entities.StateTag, *entities.SessionPayload, error) {
	flow, err := d.flows.Resume(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if flow.Session == nil {
		// The user is inside a different kind of interaction.
		return "", nil, ErrNothingToResume
	}
	return flow.State, flow.Session, nil
}

// checkAnswer compares an answer with the expected one. Multiple-choice
// answers must match an option exactly; free-text answers are trimmed and
// case-folded first.
func checkAnswer(q entities.Question, answer string) bool {
	if q.MultipleChoice() {
		return answer == q.Answer
	}
	return strings.EqualFold(
		strings.TrimSpace(answer),
		strings.TrimSpace(q.Answer),
	)
}

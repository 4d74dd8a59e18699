// Package storage provides process-local state that does not need to survive
// a restart. Losing it degrades gracefully: a homework attempt simply starts
// over from its first unanswered question.
package storage

import "sync"

// HomeworkPointer identifies the question a homework attempt is at.
type HomeworkPointer struct {
	HomeworkID int64
	QuestionID int64
}

// QuestionMessage remembers the chat message currently displaying the
// question, so the next question can be edited in place.
type QuestionMessage struct {
	ChatID    int64
	MessageID int
}

// HomeworkProgress tracks in-flight homework attempts keyed by user id.
// Safe for concurrent use across users.
type HomeworkProgress struct {
	mu       sync.RWMutex
	current  map[int64]HomeworkPointer
	answers  map[int64]map[int64]string
	messages map[int64]QuestionMessage
}

// NewHomeworkProgress creates an empty tracker.
func NewHomeworkProgress() *HomeworkProgress {
	return &HomeworkProgress{
		current:  make(map[int64]HomeworkPointer),
		answers:  make(map[int64]map[int64]string),
		messages: make(map[int64]QuestionMessage),
	}
}

// SetCurrentQuestion points the user's attempt at a homework question.
func (s *HomeworkProgress) SetCurrentQuestion(userID int64, homeworkID, questionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[userID] = HomeworkPointer{HomeworkID: homeworkID, QuestionID: questionID}
}

// GetCurrentQuestion returns where the user's attempt currently is.
func (s *HomeworkProgress) GetCurrentQuestion(userID int64) (HomeworkPointer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ptr, ok := s.current[userID]
	return ptr, ok
}

// SetAnswer records the user's answer to one question.
func (s *HomeworkProgress) SetAnswer(userID, questionID int64, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answers[userID] == nil {
		s.answers[userID] = make(map[int64]string)
	}
	s.answers[userID][questionID] = answer
}

// GetAnswers returns a copy of the user's accumulated answers.
func (s *HomeworkProgress) GetAnswers(userID int64) map[int64]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make(map[int64]string, len(s.answers[userID]))
	for id, answer := range s.answers[userID] {
		answers[id] = answer
	}
	return answers
}

// SetQuestionMessage remembers which chat message shows the current question.
func (s *HomeworkProgress) SetQuestionMessage(userID, chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[userID] = QuestionMessage{ChatID: chatID, MessageID: messageID}
}

// GetQuestionMessage returns the message currently displaying the question.
func (s *HomeworkProgress) GetQuestionMessage(userID int64) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[userID]
	return msg, ok
}

// ClearState drops everything tracked for a user.
func (s *HomeworkProgress) ClearState(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, userID)
	delete(s.answers, userID)
	delete(s.messages, userID)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
	"github.com/askarbek/lingua-tutor-bot/internal/storage"
)

var (
	ErrNoHomework           = errors.New("lesson has no homework")
	ErrNoHomeworkAttempt    = errors.New("no homework attempt in progress")
	ErrHomeworkQuestionGone = errors.New("homework question no longer exists")
)

// HomeworkAnswerResult tells the transport layer what to render after a
// homework answer.
type HomeworkAnswerResult struct {
	Correct bool

	// Next is the question to show, nil when the attempt was just submitted.
	Next *entities.HomeworkQuestion

	// Submission is set once the last question was answered and the attempt
	// was graded as a unit.
	Submission *entities.HomeworkSubmission
}

// HomeworkService runs homework attempts question by question. Progress lives
// in the process-local tracker; unlike quiz sessions there is an explicit
// submit with a persisted scored record, and only a perfect score unlocks the
// next lesson.
type HomeworkService struct {
	hwRepo     HomeworkRepository
	lessonRepo LessonRepository
	userRepo   UserRepository
	progress   *storage.HomeworkProgress
}

func NewHomeworkService(
	hwRepo HomeworkRepository,
	lessonRepo LessonRepository,
	userRepo UserRepository,
	progress *storage.HomeworkProgress,
) *HomeworkService {
	return &HomeworkService{
		hwRepo:     hwRepo,
		lessonRepo: lessonRepo,
		userRepo:   userRepo,
		progress:   progress,
	}
}

// Start begins (or restarts) the homework attempt for a lesson and returns
// the first question.
func (s *HomeworkService) Start(ctx context.Context, userID, lessonID int64) (*entities.Homework, *entities.HomeworkQuestion, error) {
	hw, err := s.hwRepo.GetByLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrHomeworkNotFound) {
			return nil, nil, ErrNoHomework
		}
		return nil, nil, fmt.Errorf("get homework: %w", err)
	}
	if len(hw.Questions) == 0 {
		return nil, nil, ErrNoHomework
	}

	s.progress.ClearState(userID)
	first := hw.Questions[0]
	s.progress.SetCurrentQuestion(userID, hw.ID, first.ID)

	return hw, &first, nil
}

// CurrentQuestion returns the question the user's attempt is waiting on.
func (s *HomeworkService) CurrentQuestion(ctx context.Context, userID int64) (*entities.HomeworkQuestion, error) {
	ptr, ok := s.progress.GetCurrentQuestion(userID)
	if !ok {
		return nil, ErrNoHomeworkAttempt
	}

	hw, err := s.hwRepo.GetByID(ctx, ptr.HomeworkID)
	if err != nil {
		if errors.Is(err, repository.ErrHomeworkNotFound) {
			s.progress.ClearState(userID)
			return nil, ErrNoHomeworkAttempt
		}
		return nil, fmt.Errorf("get homework: %w", err)
	}

	question, ok := hw.Question(ptr.QuestionID)
	if !ok {
		s.progress.ClearState(userID)
		return nil, ErrHomeworkQuestionGone
	}

	return &question, nil
}

// Answer records one answer. Multiple-choice answers are checked immediately
// and only advance the pointer when correct; free-text answers always advance
// and are graded at submit time. Answering the last question submits the
// accumulated answer map as a unit.
func (s *HomeworkService) Answer(ctx context.Context, userID int64, answer string) (*HomeworkAnswerResult, error) {
	ptr, ok := s.progress.GetCurrentQuestion(userID)
	if !ok {
		return nil, ErrNoHomeworkAttempt
	}

	hw, err := s.hwRepo.GetByID(ctx, ptr.HomeworkID)
	if err != nil {
		if errors.Is(err, repository.ErrHomeworkNotFound) {
			s.progress.ClearState(userID)
			return nil, ErrNoHomeworkAttempt
		}
		return nil, fmt.Errorf("get homework: %w", err)
	}

	question, ok := hw.Question(ptr.QuestionID)
	if !ok {
		s.progress.ClearState(userID)
		return nil, ErrHomeworkQuestionGone
	}

	correct := question.CheckAnswer(answer)
	if question.Options != nil && !correct {
		// Wrong tap on a multiple-choice question: stay on it.
		return &HomeworkAnswerResult{Correct: false, Next: &question}, nil
	}

	s.progress.SetAnswer(userID, question.ID, answer)

	next, ok := nextQuestion(hw, question.ID)
	if ok {
		s.progress.SetCurrentQuestion(userID, hw.ID, next.ID)
		return &HomeworkAnswerResult{Correct: correct, Next: &next}, nil
	}

	submission, err := s.submit(ctx, userID, hw)
	if err != nil {
		return nil, err
	}

	return &HomeworkAnswerResult{Correct: correct, Submission: submission}, nil
}

// Abandon drops the in-flight attempt, if any.
func (s *HomeworkService) Abandon(userID int64) {
	s.progress.ClearState(userID)
}

// submit grades the full answer map, persists the scored record, and on a
// perfect score moves the user to the next lesson.
func (s *HomeworkService) submit(ctx context.Context, userID int64, hw *entities.Homework) (*entities.HomeworkSubmission, error) {
	answers := s.progress.GetAnswers(userID)
	s.progress.ClearState(userID)

	score, total := hw.Grade(answers)
	submission := entities.NewHomeworkSubmission(userID, hw.ID, score, total)

	// Re-passing old homework must not move the user back to its lesson.
	passedBefore, err := s.hwRepo.HasPassed(ctx, userID, hw.ID)
	if err != nil {
		return nil, fmt.Errorf("check earlier passes: %w", err)
	}

	if err := s.hwRepo.SaveSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	if submission.Passed && !passedBefore {
		if err := s.unlockNextLesson(ctx, userID, hw.LessonID); err != nil {
			return nil, err
		}
	}

	return submission, nil
}

func (s *HomeworkService) unlockNextLesson(ctx context.Context, userID, lessonID int64) error {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}

	next, err := s.lessonRepo.GetNextAfter(ctx, lesson.Order)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			// Already at the last lesson of the course.
			return nil
		}
		return fmt.Errorf("get next lesson: %w", err)
	}

	if err := s.userRepo.UpdateCurrentLesson(ctx, userID, next.ID); err != nil {
		return fmt.Errorf("unlock lesson: %w", err)
	}

	return nil
}

func nextQuestion(hw *entities.Homework, afterID int64) (entities.HomeworkQuestion, bool) {
	for i, q := range hw.Questions {
		if q.ID == afterID && i+1 < len(hw.Questions) {
			return hw.Questions[i+1], true
		}
	}
	return entities.HomeworkQuestion{}, false
}

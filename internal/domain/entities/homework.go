package entities

import (
	"strings"
	"time"
)

// HomeworkQuestion is one graded question of a lesson's homework.
// An empty Options slice means a free-text answer is expected.
type HomeworkQuestion struct {
	ID      int64
	Text    string
	Answer  string
	Options []string
}

// CheckAnswer compares a user answer with the expected one.
// Free-text answers are normalized (trimmed, case-folded) before comparison.
func (q HomeworkQuestion) CheckAnswer(answer string) bool {
	if len(q.Options) > 0 {
		return answer == q.Answer
	}
	return strings.EqualFold(
		strings.TrimSpace(answer),
		strings.TrimSpace(q.Answer),
	)
}

// Homework is the set of graded questions attached to a lesson.
type Homework struct {
	ID        int64
	LessonID  int64
	Questions []HomeworkQuestion
}

// Question returns the homework question with the given id.
func (h *Homework) Question(id int64) (HomeworkQuestion, bool) {
	for _, q := range h.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return HomeworkQuestion{}, false
}

// Grade scores a full answer map against the homework questions.
func (h *Homework) Grade(answers map[int64]string) (score, total int) {
	total = len(h.Questions)
	for _, q := range h.Questions {
		if answer, ok := answers[q.ID]; ok && q.CheckAnswer(answer) {
			score++
		}
	}
	return score, total
}

// HomeworkSubmission is the persisted result of one graded homework attempt.
type HomeworkSubmission struct {
	ID          int64
	UserID      int64
	HomeworkID  int64
	Score       int
	Total       int
	Passed      bool // perfect score; unlocks the next lesson
	SubmittedAt time.Time
}

// NewHomeworkSubmission builds a submission record from a graded attempt.
func NewHomeworkSubmission(userID, homeworkID int64, score, total int) *HomeworkSubmission {
	return &HomeworkSubmission{
		UserID:      userID,
		HomeworkID:  homeworkID,
		Score:       score,
		Total:       total,
		Passed:      total > 0 && score == total,
		SubmittedAt: time.Now(),
	}
}

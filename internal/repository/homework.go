package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrHomeworkNotFound = errors.New("homework not found")

// HomeworkRepository provides access to lesson homework and graded submissions.
type HomeworkRepository struct {
	db DB
}

func NewHomeworkRepository(db DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// GetByID retrieves homework with its questions in order.
// Returns ErrHomeworkNotFound if the homework doesn't exist.
func (r *HomeworkRepository) GetByID(ctx context.Context, id int64) (*entities.Homework, error) {
	query := "SELECT id, lesson_id FROM homework WHERE id = $1"

	var hw entities.Homework
	err := r.db.QueryRow(ctx, query, id).Scan(&hw.ID, &hw.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHomeworkNotFound
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	questions, err := r.getQuestions(ctx, hw.ID)
	if err != nil {
		return nil, err
	}
	hw.Questions = questions

	return &hw, nil
}

// GetByLesson retrieves the homework attached to a lesson.
// Returns ErrHomeworkNotFound if the lesson has none.
func (r *HomeworkRepository) GetByLesson(ctx context.Context, lessonID int64) (*entities.Homework, error) {
	query := "SELECT id, lesson_id FROM homework WHERE lesson_id = $1"

	var hw entities.Homework
	err := r.db.QueryRow(ctx, query, lessonID).Scan(&hw.ID, &hw.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHomeworkNotFound
		}
		return nil, fmt.Errorf("get by lesson: %w", err)
	}

	questions, err := r.getQuestions(ctx, hw.ID)
	if err != nil {
		return nil, err
	}
	hw.Questions = questions

	return &hw, nil
}

func (r *HomeworkRepository) getQuestions(ctx context.Context, homeworkID int64) ([]entities.HomeworkQuestion, error) {
	query := `
		SELECT id, text, answer, options
		FROM homework_questions
		WHERE homework_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, homeworkID)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.HomeworkQuestion
	for rows.Next() {
		var q entities.HomeworkQuestion
		if err := rows.Scan(&q.ID, &q.Text, &q.Answer, &q.Options); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return questions, nil
}

// SaveSubmission persists a graded homework attempt and fills its id.
func (r *HomeworkRepository) SaveSubmission(ctx context.Context, sub *entities.HomeworkSubmission) error {
	query := `
		INSERT INTO homework_submissions (user_id, homework_id, score, total, passed, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx, query,
		sub.UserID,
		sub.HomeworkID,
		sub.Score,
		sub.Total,
		sub.Passed,
		sub.SubmittedAt,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}

	return nil
}

// HasPassed reports whether the user already has a passing submission.
func (r *HomeworkRepository) HasPassed(ctx context.Context, userID, homeworkID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM homework_submissions
			WHERE user_id = $1 AND homework_id = $2 AND passed = true
		)
	`

	var passed bool
	if err := r.db.QueryRow(ctx, query, userID, homeworkID).Scan(&passed); err != nil {
		return false, fmt.Errorf("has passed: %w", err)
	}

	return passed, nil
}

// DeleteSubmissionsByUserID removes all homework submissions of a user.
func (r *HomeworkRepository) DeleteSubmissionsByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM homework_submissions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete submissions by user id: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrLessonNotFound = errors.New("lesson not found")

// LessonRepository provides read access to the course lessons.
type LessonRepository struct {
	db DB
}

func NewLessonRepository(db DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// GetByID retrieves a single lesson.
// Returns ErrLessonNotFound if the lesson doesn't exist.
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*entities.Lesson, error) {
	query := "SELECT id, course_order, title FROM lessons WHERE id = $1"

	var lesson entities.Lesson
	err := r.db.QueryRow(ctx, query, id).Scan(&lesson.ID, &lesson.Order, &lesson.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &lesson, nil
}

// GetNextAfter retrieves the lesson that follows the given course order.
// Returns ErrLessonNotFound when the course has no further lessons.
func (r *LessonRepository) GetNextAfter(ctx context.Context, order int) (*entities.Lesson, error) {
	query := `
		SELECT id, course_order, title
		FROM lessons
		WHERE course_order > $1
		ORDER BY course_order
		LIMIT 1
	`

	var lesson entities.Lesson
	err := r.db.QueryRow(ctx, query, order).Scan(&lesson.ID, &lesson.Order, &lesson.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get next after: %w", err)
	}

	return &lesson, nil
}

// GetUpToOrder retrieves lessons with course order up to and including the
// given one, in course order.
func (r *LessonRepository) GetUpToOrder(ctx context.Context, order int) ([]*entities.Lesson, error) {
	query := `
		SELECT id, course_order, title
		FROM lessons
		WHERE course_order <= $1
		ORDER BY course_order
	`

	rows, err := r.db.Query(ctx, query, order)
	if err != nil {
		return nil, fmt.Errorf("get up to order: %w", err)
	}
	defer rows.Close()

	var lessons []*entities.Lesson
	for rows.Next() {
		var lesson entities.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.Order, &lesson.Title); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository with the provided database handle.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// SaveUser inserts a new user into the database.
// It sets CurrentLessonID, IsActive and CreatedAt fields from the database.
func (r *UserRepository) SaveUser(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, chat_id)
		VALUES ($1, $2)
		RETURNING current_lesson_id, is_active, created_at
	`

	err := r.db.QueryRow(ctx, query, user.ID, user.ChatID).
		Scan(&user.CurrentLessonID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// UserExists checks if a user with the given ID exists in the database.
func (r *UserRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)"

	var exists bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}

	return exists, nil
}

// GetByID retrieves a user by id.
// Returns ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, chat_id, current_lesson_id, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.ChatID,
		&user.CurrentLessonID,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &user, nil
}

// UpdateCurrentLesson moves the user to the given lesson.
func (r *UserRepository) UpdateCurrentLesson(ctx context.Context, userID, lessonID int64) error {
	query := "UPDATE users SET current_lesson_id = $2 WHERE id = $1"

	cmdTag, err := r.db.Exec(ctx, query, userID, lessonID)
	if err != nil {
		return fmt.Errorf("update current lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

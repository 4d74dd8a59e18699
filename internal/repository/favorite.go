package repository

import (
	"context"
	"fmt"
)

// FavoriteRepository stores vocabulary the user marked for personal review.
type FavoriteRepository struct {
	db DB
}

func NewFavoriteRepository(db DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a vocabulary item as favorite. Does nothing if already marked.
func (r *FavoriteRepository) Add(ctx context.Context, userID, vocabularyID int64) error {
	query := `
		INSERT INTO favorites (user_id, vocabulary_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, vocabulary_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, vocabularyID); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	return nil
}

// Remove unmarks a favorite and reports whether it was marked.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, vocabularyID int64) (bool, error) {
	query := "DELETE FROM favorites WHERE user_id = $1 AND vocabulary_id = $2"

	cmdTag, err := r.db.Exec(ctx, query, userID, vocabularyID)
	if err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// GetByUserID returns the user's favorite vocabulary ids, ascending.
func (r *FavoriteRepository) GetByUserID(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT vocabulary_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY vocabulary_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get by user id: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return ids, nil
}

// DeleteByUserID removes all favorites of a user.
func (r *FavoriteRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM favorites WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete by user id: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrDictionaryEntryNotFound = errors.New("dictionary entry not found")

// DictionaryRepository stores the user's personal word/translation pairs.
type DictionaryRepository struct {
	db DB
}

func NewDictionaryRepository(db DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

// Create inserts a new personal dictionary entry and fills its id.
func (r *DictionaryRepository) Create(ctx context.Context, entry *entities.DictionaryEntry) error {
	query := `
		INSERT INTO dictionary_entries (user_id, word, translation)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, entry.UserID, entry.Word, entry.Translation).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

// GetByID retrieves one entry of the user's dictionary.
// Returns ErrDictionaryEntryNotFound if the entry doesn't exist.
func (r *DictionaryRepository) GetByID(ctx context.Context, id int64) (*entities.DictionaryEntry, error) {
	query := `
		SELECT id, user_id, word, translation, created_at
		FROM dictionary_entries
		WHERE id = $1
	`

	var entry entities.DictionaryEntry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Word,
		&entry.Translation,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDictionaryEntryNotFound
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &entry, nil
}

// GetByUserID returns all entries of the user's dictionary, oldest first.
func (r *DictionaryRepository) GetByUserID(ctx context.Context, userID int64) ([]*entities.DictionaryEntry, error) {
	query := `
		SELECT id, user_id, word, translation, created_at
		FROM dictionary_entries
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get by user id: %w", err)
	}
	defer rows.Close()

	var entries []*entities.DictionaryEntry
	for rows.Next() {
		var entry entities.DictionaryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Word,
			&entry.Translation,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// DeleteByUserID removes the user's whole personal dictionary.
func (r *DictionaryRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM dictionary_entries WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete by user id: %w", err)
	}

	return nil
}

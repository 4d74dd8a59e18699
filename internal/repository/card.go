package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrCardNotFound = errors.New("review card not found")

// CardRepository stores spaced-repetition review cards.
type CardRepository struct {
	db DB
}

func NewCardRepository(db DB) *CardRepository {
	return &CardRepository{db: db}
}

// Get retrieves the review card for a (user, vocabulary) pair.
// Returns ErrCardNotFound if no card exists yet.
func (r *CardRepository) Get(ctx context.Context, userID, vocabularyID int64) (*entities.ReviewCard, error) {
	query := `
		SELECT user_id, vocabulary_id, stage, next_review_at, last_result, correct_count, total_attempts
		FROM review_cards
		WHERE user_id = $1 AND vocabulary_id = $2
	`

	var card entities.ReviewCard
	err := r.db.QueryRow(ctx, query, userID, vocabularyID).Scan(
		&card.UserID,
		&card.VocabularyID,
		&card.Stage,
		&card.NextReviewAt,
		&card.LastResult,
		&card.CorrectCount,
		&card.TotalAttempts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}

	return &card, nil
}

// Upsert creates or replaces a review card.
func (r *CardRepository) Upsert(ctx context.Context, card *entities.ReviewCard) error {
	query := `
		INSERT INTO review_cards (user_id, vocabulary_id, stage, next_review_at, last_result, correct_count, total_attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, vocabulary_id)
		DO UPDATE SET
			stage = excluded.stage,
			next_review_at = excluded.next_review_at,
			last_result = excluded.last_result,
			correct_count = excluded.correct_count,
			total_attempts = excluded.total_attempts
	`

	_, err := r.db.Exec(
		ctx, query,
		card.UserID,
		card.VocabularyID,
		card.Stage,
		card.NextReviewAt,
		card.LastResult,
		card.CorrectCount,
		card.TotalAttempts,
	)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return nil
}

// GetDue retrieves cards whose next review time has passed, soonest first.
// Ties are broken by vocabulary id ascending so the order is stable.
func (r *CardRepository) GetDue(ctx context.Context, userID int64, now time.Time, limit int) ([]*entities.ReviewCard, error) {
	query := `
		SELECT user_id, vocabulary_id, stage, next_review_at, last_result, correct_count, total_attempts
		FROM review_cards
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at, vocabulary_id
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("get due: %w", err)
	}
	defer rows.Close()

	var cards []*entities.ReviewCard
	for rows.Next() {
		var card entities.ReviewCard
		err := rows.Scan(
			&card.UserID,
			&card.VocabularyID,
			&card.Stage,
			&card.NextReviewAt,
			&card.LastResult,
			&card.CorrectCount,
			&card.TotalAttempts,
		)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// CountDue returns how many cards are waiting for review.
func (r *CardRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM review_cards WHERE user_id = $1 AND next_review_at <= $2"

	var count int
	if err := r.db.QueryRow(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}

	return count, nil
}

// DeleteByUserID deletes all review cards of a user.
func (r *CardRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM review_cards WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete by user id: %w", err)
	}

	return nil
}

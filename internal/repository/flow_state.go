package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrFlowStateNotFound = errors.New("flow state not found")

// FlowStateRepository persists the single in-progress interaction per user.
// The payload is stored opaquely; interpretation happens in the service layer.
type FlowStateRepository struct {
	db DB
}

func NewFlowStateRepository(db DB) *FlowStateRepository {
	return &FlowStateRepository{db: db}
}

// Get retrieves the user's current flow state.
// Returns ErrFlowStateNotFound when the user has nothing in progress.
func (r *FlowStateRepository) Get(ctx context.Context, userID int64) (*entities.FlowState, error) {
	query := `
		SELECT user_id, state, payload, updated_at
		FROM flow_states
		WHERE user_id = $1
	`

	var state entities.FlowState
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&state.UserID,
		&state.State,
		&state.Payload,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlowStateNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}

	return &state, nil
}

// Set creates or overwrites the user's flow state, last write wins.
func (r *FlowStateRepository) Set(ctx context.Context, userID int64, state entities.StateTag, payload []byte) error {
	query := `
		INSERT INTO flow_states (user_id, state, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			state = excluded.state,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(ctx, query, userID, state, payload); err != nil {
		return fmt.Errorf("set: %w", err)
	}

	return nil
}

// Clear removes the user's flow state and reports whether one existed.
func (r *FlowStateRepository) Clear(ctx context.Context, userID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM flow_states WHERE user_id = $1", userID)
	if err != nil {
		return false, fmt.Errorf("clear: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

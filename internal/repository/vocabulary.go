package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

var ErrVocabularyNotFound = errors.New("vocabulary item not found")

// VocabularyRepository provides read access to the shared course vocabulary.
type VocabularyRepository struct {
	db DB
}

func NewVocabularyRepository(db DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

const vocabularyColumns = "id, lesson_id, word, translation, COALESCE(pronunciation, ''), COALESCE(example, '')"

func scanVocabulary(row pgx.Row) (*entities.VocabularyItem, error) {
	var item entities.VocabularyItem
	err := row.Scan(
		&item.ID,
		&item.LessonID,
		&item.Word,
		&item.Translation,
		&item.Pronunciation,
		&item.Example,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByID retrieves a single vocabulary item.
// Returns ErrVocabularyNotFound if the item doesn't exist.
func (r *VocabularyRepository) GetByID(ctx context.Context, id int64) (*entities.VocabularyItem, error) {
	query := fmt.Sprintf("SELECT %s FROM vocabulary WHERE id = $1", vocabularyColumns)

	item, err := scanVocabulary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVocabularyNotFound
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return item, nil
}

// GetByIDs retrieves vocabulary items for the given ids, ordered by id.
// Missing ids are silently skipped.
func (r *VocabularyRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entities.VocabularyItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM vocabulary WHERE id = ANY($1) ORDER BY id", vocabularyColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get by ids: %w", err)
	}
	defer rows.Close()

	return collectVocabulary(rows, "get by ids")
}

// GetByLesson retrieves all vocabulary of one lesson, ordered by id.
func (r *VocabularyRepository) GetByLesson(ctx context.Context, lessonID int64) ([]*entities.VocabularyItem, error) {
	query := fmt.Sprintf("SELECT %s FROM vocabulary WHERE lesson_id = $1 ORDER BY id", vocabularyColumns)

	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get by lesson: %w", err)
	}
	defer rows.Close()

	return collectVocabulary(rows, "get by lesson")
}

// GetForLessonsBefore retrieves vocabulary of lessons strictly before the given
// course order, ordered by lesson order and then vocabulary id.
func (r *VocabularyRepository) GetForLessonsBefore(ctx context.Context, order int, limit int) ([]*entities.VocabularyItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vocabulary v
		JOIN lessons l ON l.id = v.lesson_id
		WHERE l.course_order < $1
		ORDER BY l.course_order, v.id
		LIMIT $2
	`, prefixedVocabularyColumns("v"))

	rows, err := r.db.Query(ctx, query, order, limit)
	if err != nil {
		return nil, fmt.Errorf("get for lessons before: %w", err)
	}
	defer rows.Close()

	return collectVocabulary(rows, "get for lessons before")
}

// GetUnseen retrieves vocabulary from lessons up to and including the given
// course order that the user has no review card for yet.
func (r *VocabularyRepository) GetUnseen(ctx context.Context, userID int64, order int, limit int) ([]*entities.VocabularyItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM vocabulary v
		JOIN lessons l ON l.id = v.lesson_id
		LEFT JOIN review_cards c ON c.vocabulary_id = v.id AND c.user_id = $1
		WHERE l.course_order <= $2 AND c.vocabulary_id IS NULL
		ORDER BY l.course_order, v.id
		LIMIT $3
	`, prefixedVocabularyColumns("v"))

	rows, err := r.db.Query(ctx, query, userID, order, limit)
	if err != nil {
		return nil, fmt.Errorf("get unseen: %w", err)
	}
	defer rows.Close()

	return collectVocabulary(rows, "get unseen")
}

// Search finds vocabulary whose word or translation contains the query
// substring, case-insensitively.
func (r *VocabularyRepository) Search(ctx context.Context, query string, limit int) ([]*entities.VocabularyItem, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM vocabulary
		WHERE word ILIKE '%%' || $1 || '%%' OR translation ILIKE '%%' || $1 || '%%'
		ORDER BY id
		LIMIT $2
	`, vocabularyColumns)

	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	return collectVocabulary(rows, "search")
}

func prefixedVocabularyColumns(alias string) string {
	return fmt.Sprintf(
		"%[1]s.id, %[1]s.lesson_id, %[1]s.word, %[1]s.translation, COALESCE(%[1]s.pronunciation, ''), COALESCE(%[1]s.example, '')",
		alias,
	)
}

func collectVocabulary(rows pgx.Rows, op string) ([]*entities.VocabularyItem, error) {
	var items []*entities.VocabularyItem
	for rows.Next() {
		item, err := scanVocabulary(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *entities.User) error
	UserExists(ctx context.Context, userID int64) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	UpdateCurrentLesson(ctx context.Context, userID, lessonID int64) error
}

type VocabularyRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.VocabularyItem, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.VocabularyItem, error)
	GetByLesson(ctx context.Context, lessonID int64) ([]*entities.VocabularyItem, error)
	GetForLessonsBefore(ctx context.Context, order int, limit int) ([]*entities.VocabularyItem, error)
	GetUnseen(ctx context.Context, userID int64, order int, limit int) ([]*entities.VocabularyItem, error)
	Search(ctx context.Context, query string, limit int) ([]*entities.VocabularyItem, error)
}

type LessonRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Lesson, error)
	GetNextAfter(ctx context.Context, order int) (*entities.Lesson, error)
}

type CardRepository interface {
	Get(ctx context.Context, userID, vocabularyID int64) (*entities.ReviewCard, error)
	Upsert(ctx context.Context, card *entities.ReviewCard) error
	GetDue(ctx context.Context, userID int64, now time.Time, limit int) ([]*entities.ReviewCard, error)
	CountDue(ctx context.Context, userID int64, now time.Time) (int, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, vocabularyID int64) error
	Remove(ctx context.Context, userID, vocabularyID int64) (bool, error)
	GetByUserID(ctx context.Context, userID int64) ([]int64, error)
}

type DictionaryRepository interface {
	Create(ctx context.Context, entry *entities.DictionaryEntry) error
	GetByUserID(ctx context.Context, userID int64) ([]*entities.DictionaryEntry, error)
}

type HomeworkRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Homework, error)
	GetByLesson(ctx context.Context, lessonID int64) (*entities.Homework, error)
	SaveSubmission(ctx context.Context, sub *entities.HomeworkSubmission) error
	HasPassed(ctx context.Context, userID, homeworkID int64) (bool, error)
}

// FlowStateRepository is the persistence contract for per-user flow state.
// The payload is opaque here; the flow service interprets it by state tag.
type FlowStateRepository interface {
	Get(ctx context.Context, userID int64) (*entities.FlowState, error)
	Set(ctx context.Context, userID int64, state entities.StateTag, payload []byte) error
	Clear(ctx context.Context, userID int64) (bool, error)
}

// Transactor runs several repository calls within one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
)

type UserService struct {
	repository UserRepository
	tr         Transactor
}

func NewUserService(repository UserRepository, tr Transactor) *UserService {
	return &UserService{repository: repository, tr: tr}
}

func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	exists, err := s.repository.UserExists(ctx, user.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.repository.SaveUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	return s.repository.GetByID(ctx, userID)
}

// EraseUserData wipes everything learned about a user in one transaction:
// review cards, favorites, the personal dictionary, homework submissions and
// any in-progress flow state.
func (s *UserService) EraseUserData(ctx context.Context, userID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := repository.NewCardRepository(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := repository.NewFavoriteRepository(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := repository.NewDictionaryRepository(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := repository.NewHomeworkRepository(tx).DeleteSubmissionsByUserID(ctx, userID); err != nil {
			return err
		}
		if _, err := repository.NewFlowStateRepository(tx).Clear(ctx, userID); err != nil {
			return err
		}
		return nil
	})
}

// FavoriteService manages the user's personally marked vocabulary.
type FavoriteService struct {
	favRepo   FavoriteRepository
	vocabRepo VocabularyRepository
}

func NewFavoriteService(favRepo FavoriteRepository, vocabRepo VocabularyRepository) *FavoriteService {
	return &FavoriteService{favRepo: favRepo, vocabRepo: vocabRepo}
}

// Toggle flips the favorite mark on a vocabulary item and reports whether it
// is now marked.
func (s *FavoriteService) Toggle(ctx context.Context, userID, vocabularyID int64) (bool, error) {
	// Validate the reference before writing.
	if _, err := s.vocabRepo.GetByID(ctx, vocabularyID); err != nil {
		return false, fmt.Errorf("get vocabulary: %w", err)
	}

	removed, err := s.favRepo.Remove(ctx, userID, vocabularyID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	if err := s.favRepo.Add(ctx, userID, vocabularyID); err != nil {
		return false, err
	}
	return true, nil
}

// List returns the user's favorite vocabulary items.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]*entities.VocabularyItem, error) {
	ids, err := s.favRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.vocabRepo.GetByIDs(ctx, ids)
}

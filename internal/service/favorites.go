package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/repository"
)

var (
	// ErrInvalidFavorite means the submitted favorite is missing required
	// fields or names an unknown type.
	ErrInvalidFavorite = errors.New("invalid favorite")
	// ErrFavoriteNotFound means no favorite with that id belongs to the user.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService struct {
	repo   *repository.FavoriteRepository
	logger zerolog.Logger
}

func NewFavoriteService(repo *repository.FavoriteRepository, logger zerolog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: logger}
}

func (s *FavoriteService) List(ctx context.Context, userID, tipo string) ([]domain.Favorite, error) {
	if tipo != "" && tipo != domain.FavoritePlayer && tipo != domain.FavoriteChampion {
		return nil, ErrInvalidFavorite
	}
	return s.repo.List(ctx, userID, tipo)
}

func (s *FavoriteService) Create(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.Nome == "" || favorite.UserID == "" {
		return ErrInvalidFavorite
	}
	switch favorite.Tipo {
	case domain.FavoritePlayer:
		if favorite.Tag == "" {
			return ErrInvalidFavorite
		}
	case domain.FavoriteChampion:
	default:
		return ErrInvalidFavorite
	}
	return s.repo.Create(ctx, favorite)
}

func (s *FavoriteService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFavoriteNotFound
	}
	return nil
}

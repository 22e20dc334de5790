package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

// ErrDuplicateFavorite means the user already favorited that player or
// champion.
var ErrDuplicateFavorite = errors.New("favorite already exists")

type FavoriteRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewFavoriteRepository(sqlDB *sql.DB, logger zerolog.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *FavoriteRepository) List(ctx context.Context, userID string, tipo string) ([]domain.Favorite, error) {
	query := `
		SELECT id, user_id, nome, tag, tipo, observacao, created_at, updated_at
		FROM favorites WHERE user_id = ?`
	args := []any{userID}
	if tipo != "" {
		query += ` AND tipo = ?`
		args = append(args, tipo)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Nome, &f.Tag, &f.Tipo, &f.Observacao, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *FavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate favorite id: %w", err)
	}

	now := time.Now().UTC()
	favorite.ID = id
	favorite.Nome = strings.ToLower(favorite.Nome)
	favorite.Tag = strings.ToLower(favorite.Tag)
	favorite.CreatedAt = now
	favorite.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, nome, tag, tipo, observacao, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		favorite.ID, favorite.UserID, favorite.Nome, favorite.Tag,
		favorite.Tipo, favorite.Observacao, favorite.CreatedAt, favorite.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquest-service/internal/domain"
)

// UserRepository persists accounts. Login is an upsert keyed on the unique
// name column.
type UserRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) UpsertByName(ctx context.Context, name string) (domain.User, error) {
	row := userRow{
		Name:         name,
		Role:         string(domain.RoleUser),
		CreatedAt:    r.now(),
		LastSignedIn: r.now(),
	}
	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (name) DO UPDATE").
		Set("last_signed_in = EXCLUDED.last_signed_in").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquest-service/internal/domain"
)

// CreditRepository is the credit ledger. Adjust applies the balance delta and
// the transaction record in one transaction; a negative delta is guarded by
// the WHERE clause so the balance can never go below zero, even under
// concurrent spends.
type CreditRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewCreditRepository(db *bun.DB) *CreditRepository {
	return &CreditRepository{db: db, now: time.Now}
}

func (r *CreditRepository) Adjust(ctx context.Context, userID int64, delta int, typ domain.TransactionType, description string, relatedID int64) (int, error) {
	var balance int
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		update := tx.NewUpdate().
			Model((*userRow)(nil)).
			Set("credits = credits + ?", delta).
			Where("id = ?", userID).
			Returning("credits")
		if delta < 0 {
			update = update.Where("credits + ? >= 0", delta)
		}
		err := update.Scan(ctx, &balance)
		if err == sql.ErrNoRows {
			exists, existsErr := tx.NewSelect().Model((*userRow)(nil)).Where("u.id = ?", userID).Exists(ctx)
			if existsErr != nil {
				return fmt.Errorf("check user: %w", existsErr)
			}
			if !exists {
				return domain.ErrUserNotFound
			}
			return domain.ErrInsufficientCredits
		}
		if err != nil {
			return fmt.Errorf("adjust credits: %w", err)
		}

		txRow := transactionRow{
			UserID:      userID,
			Amount:      delta,
			Type:        string(typ),
			Description: description,
			RelatedID:   relatedID,
			CreatedAt:   r.now(),
		}
		if _, err := tx.NewInsert().Model(&txRow).Exec(ctx); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepository) Transactions(ctx context.Context, userID int64) ([]domain.CreditTransaction, error) {
	var rows []transactionRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("ct.user_id = ?", userID).
		Order("ct.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]domain.CreditTransaction, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

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

// RewardRepository serves the catalog and settles redemptions. Redeem debits
// the balance, inserts the pending redemption and the spent transaction in
// one transaction; the conditional UPDATE is the overdraft guard.
type RewardRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewRewardRepository(db *bun.DB) *RewardRepository {
	return &RewardRepository{db: db, now: time.Now}
}

func (r *RewardRepository) ListActive(ctx context.Context) ([]domain.Reward, error) {
	var rows []rewardRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("r.active").
		Order("r.category ASC", "r.credit_cost ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	out := make([]domain.Reward, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *RewardRepository) Get(ctx context.Context, rewardID int64) (domain.Reward, error) {
	var row rewardRow
	err := r.db.NewSelect().Model(&row).Where("r.id = ?", rewardID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reward{}, domain.ErrRewardNotFound
	}
	if err != nil {
		return domain.Reward{}, fmt.Errorf("get reward: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RewardRepository) Redeem(ctx context.Context, userID int64, reward domain.Reward, expiresAt time.Time) (domain.Redemption, int, error) {
	var (
		balance  int
		row      redemptionRow
		redeemed = r.now()
	)
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewUpdate().
			Model((*userRow)(nil)).
			Set("credits = credits - ?", reward.CreditCost).
			Where("id = ?", userID).
			Where("credits >= ?", reward.CreditCost).
			Returning("credits").
			Scan(ctx, &balance)
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
			return fmt.Errorf("debit credits: %w", err)
		}

		row = redemptionRow{
			UserID:       userID,
			RewardID:     reward.ID,
			CreditsSpent: reward.CreditCost,
			Status:       string(domain.RedemptionPending),
			RedeemedAt:   redeemed,
			ExpiresAt:    expiresAt,
		}
		if _, err := tx.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
			return fmt.Errorf("insert redemption: %w", err)
		}

		txRow := transactionRow{
			UserID:      userID,
			Amount:      -reward.CreditCost,
			Type:        string(domain.TransactionSpent),
			Description: "Redeemed: " + reward.Name,
			RelatedID:   row.ID,
			CreatedAt:   redeemed,
		}
		if _, err := tx.NewInsert().Model(&txRow).Exec(ctx); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Redemption{}, 0, err
	}
	redemption := row.toDomain()
	redemption.RewardName = reward.Name
	redemption.Category = reward.Category
	return redemption, balance, nil
}

func (r *RewardRepository) Redemptions(ctx context.Context, userID int64) ([]domain.Redemption, error) {
	var rows []redemptionRow
	err := r.db.NewSelect().
		Model(&rows).
		ColumnExpr("rd.*").
		ColumnExpr("r.name AS reward_name").
		ColumnExpr("r.category AS reward_category").
		Join("JOIN rewards r ON r.id = rd.reward_id").
		Where("rd.user_id = ?", userID).
		Order("rd.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	out := make([]domain.Redemption, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

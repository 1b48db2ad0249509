package app

import (
	"context"
	"log/slog"
	"time"

	"learnquest-service/internal/domain"
)

// redemptionValidity is how long a redeemed reward stays claimable before the
// back-office marks it expired.
const redemptionValidity = 30 * 24 * time.Hour

// RewardsService owns the reward catalog and the credit-spending settlement.
type RewardsService struct {
	rewards RewardStore
	credits CreditLedger
	users   UserStore
	board   *LeaderboardService
	now     func() time.Time
	log     *slog.Logger
}

func NewRewardsService(rewards RewardStore, credits CreditLedger, users UserStore, board *LeaderboardService, log *slog.Logger) *RewardsService {
	if log == nil {
		log = slog.Default()
	}
	return &RewardsService{
		rewards: rewards,
		credits: credits,
		users:   users,
		board:   board,
		now:     time.Now,
		log:     log,
	}
}

// List returns active catalog entries.
func (s *RewardsService) List(ctx context.Context) ([]domain.Reward, error) {
	return s.rewards.ListActive(ctx)
}

// Redeem debits the reward's cost and records a pending redemption that
// expires 30 days out. The balance check and the debit happen atomically in
// the reward store, so concurrent redemptions cannot overspend; an
// insufficient balance records nothing.
func (s *RewardsService) Redeem(ctx context.Context, userID, rewardID int64) (domain.RedeemResult, error) {
	reward, err := s.rewards.Get(ctx, rewardID)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	if !reward.Active {
		return domain.RedeemResult{}, domain.ErrRewardNotFound
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	if user.Credits < reward.CreditCost {
		return domain.RedeemResult{}, domain.ErrInsufficientCredits
	}

	redemption, balance, err := s.rewards.Redeem(ctx, userID, reward, s.now().Add(redemptionValidity))
	if err != nil {
		return domain.RedeemResult{}, err
	}

	s.log.InfoContext(ctx, "reward redeemed",
		"user_id", userID, "reward_id", rewardID,
		"cost", reward.CreditCost, "balance", balance)

	if s.board != nil {
		s.board.Refresh(ctx)
	}
	return domain.RedeemResult{RedemptionID: redemption.ID, RemainingCredits: balance}, nil
}

// Redemptions returns the calling user's redemption history, newest first.
func (s *RewardsService) Redemptions(ctx context.Context, userID int64) ([]domain.Redemption, error) {
	return s.rewards.Redemptions(ctx, userID)
}

// Transactions returns the calling user's credit ledger, newest first.
func (s *RewardsService) Transactions(ctx context.Context, userID int64) ([]domain.CreditTransaction, error) {
	return s.credits.Transactions(ctx, userID)
}

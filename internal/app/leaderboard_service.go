package app

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"learnquest-service/internal/domain"
)

// LeaderboardService serves ranked snapshots and pushes them to websocket
// subscribers whenever a settlement changes the standings.
//
// Ranking key: summed historical attempt scores, descending. Ties break by
// ascending user id, so the ordering is total and deterministic. Users with
// zero attempts rank with score 0.
type LeaderboardService struct {
	source LeaderboardSource
	cache  SnapshotCache // optional
	limit  int           // broadcast snapshot size
	now    func() time.Time
	sf     singleflight.Group
	log    *slog.Logger

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardService(source LeaderboardSource, cache SnapshotCache, limit int, log *slog.Logger) *LeaderboardService {
	if limit <= 0 {
		limit = 10
	}
	if log == nil {
		log = slog.Default()
	}
	return &LeaderboardService{
		source:      source,
		cache:       cache,
		limit:       limit,
		now:         time.Now,
		log:         log,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// TopN returns up to limit ranked rows, served from the snapshot cache when
// fresh. Concurrent misses collapse into one source query.
func (s *LeaderboardService) TopN(ctx context.Context, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = s.limit
	}
	if s.cache != nil {
		if lb, ok := s.cache.Get(ctx, limit); ok {
			return lb, nil
		}
	}
	result, err, _ := s.sf.Do(strconv.Itoa(limit), func() (interface{}, error) {
		return s.load(ctx, limit)
	})
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return result.(domain.Leaderboard), nil
}

func (s *LeaderboardService) load(ctx context.Context, limit int) (domain.Leaderboard, error) {
	rows, err := s.source.TopN(ctx, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	lb := domain.Leaderboard{Rows: rows, UpdatedAt: s.now()}
	if s.cache != nil {
		s.cache.Set(ctx, limit, lb)
	}
	return lb, nil
}

// Refresh recomputes the broadcast snapshot, refreshes the cache and fans the
// result out to subscribers. Settlement paths call it after committing.
func (s *LeaderboardService) Refresh(ctx context.Context) {
	lb, err := s.load(ctx, s.limit)
	if err != nil {
		s.log.WarnContext(ctx, "leaderboard refresh failed", "err", err)
		return
	}
	s.broadcast(lb)
}

// Subscribe returns a channel receiving leaderboard snapshots, primed with the
// current standings. The caller must invoke cancel to avoid leaks.
func (s *LeaderboardService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.TopN(ctx, s.limit)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *LeaderboardService) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale snapshot so a slow client never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

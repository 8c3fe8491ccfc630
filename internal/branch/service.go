// Package branch keeps the store's branch list in step with the platform API.
package branch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

const CacheKey = "restauranthub:branches:main"

const syncKey = "branches"

type BranchStore interface {
	SetBranches(branches []domain.Branch)
	Branches() []domain.Branch
	ApplyBranchOnline(id string, isOnline bool) (domain.Branch, error)
	ApplyBranchRushHour(id string, isRushHour bool) (domain.Branch, error)
	Branch(id string) (domain.Branch, error)
}

type Service struct {
	api      *apiclient.Client
	store    BranchStore
	cache    Cache
	cacheTTL time.Duration
	seq      *sequencer
	logger   *zap.Logger
}

// NewService builds the branch bridge. cache may be nil.
func NewService(api *apiclient.Client, store BranchStore, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		api:      api,
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		seq:      newSequencer(),
		logger:   logger,
	}
}

// Sync replaces the store's branches with the upstream list. When the upstream is
// unreachable the last cached list is used instead. Flags confirmed by a toggle
// issued after the list was requested keep their confirmed value.
func (s *Service) Sync(ctx context.Context) ([]domain.Branch, error) {
	seq := s.seq.next()

	apiBranches, err := apiclient.Get[[]APIBranch](ctx, s.api, "/api/branches/mainbranch")
	if err != nil {
		cached, cacheErr := s.cached(ctx, err)
		if cacheErr != nil {
			return nil, err
		}
		apiBranches = cached
	} else {
		s.remember(ctx, apiBranches)
	}

	branches := make([]domain.Branch, 0, len(apiBranches))
	for _, b := range apiBranches {
		branches = append(branches, b.ToDomain())
	}

	applied := s.seq.applySnapshot(syncKey, seq, func(newer func(key string) bool) {
		for i := range branches {
			s.keepConfirmedFlags(&branches[i], newer)
		}
		s.store.SetBranches(branches)
	})
	if !applied {
		s.logger.Info("discarding stale branch list", zap.Uint64("seq", seq))
		return s.store.Branches(), nil
	}

	s.logger.Info("branches synced", zap.Int("count", len(branches)))
	return branches, nil
}

func (s *Service) keepConfirmedFlags(b *domain.Branch, newer func(key string) bool) {
	online, rushHour := newer(onlineKey(b.ID)), newer(rushHourKey(b.ID))
	if !online && !rushHour {
		return
	}
	current, err := s.store.Branch(b.ID)
	if err != nil {
		return
	}
	if online {
		b.IsOnline = current.IsOnline
	}
	if rushHour {
		b.IsRushHour = current.IsRushHour
	}
}

func onlineKey(id string) string { return id + ":online" }

func rushHourKey(id string) string { return id + ":rushHour" }

func (s *Service) cached(ctx context.Context, cause error) ([]APIBranch, error) {
	if s.cache == nil || !retryable(cause) {
		return nil, ErrCacheMiss
	}
	raw, err := s.cache.Get(ctx, CacheKey)
	if err != nil {
		return nil, err
	}
	var branches []APIBranch
	if err := json.Unmarshal(raw, &branches); err != nil {
		return nil, err
	}
	s.logger.Warn("upstream unavailable, using cached branches", zap.Error(cause))
	return branches, nil
}

func (s *Service) remember(ctx context.Context, branches []APIBranch) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(branches)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache branches", zap.Error(err))
	}
}

// SetOnline asks the upstream to change the online flag and records the value the
// upstream confirms. A response is discarded when a newer request's result has
// already been applied.
func (s *Service) SetOnline(ctx context.Context, id string, desired bool) (domain.Branch, error) {
	path, err := s.path(id, "toggle-online")
	if err != nil {
		return domain.Branch{}, err
	}

	key := onlineKey(id)
	seq := s.seq.next()

	confirmed, err := apiclient.Patch[onlineToggle](ctx, s.api, path, map[string]bool{"isOnline": desired})
	if err != nil {
		return domain.Branch{}, err
	}

	return s.apply(id, key, seq, func() (domain.Branch, error) {
		return s.store.ApplyBranchOnline(id, confirmed.IsOnline)
	})
}

// SetRushHour is SetOnline for the rush-hour flag.
func (s *Service) SetRushHour(ctx context.Context, id string, desired bool) (domain.Branch, error) {
	path, err := s.path(id, "rush-hour")
	if err != nil {
		return domain.Branch{}, err
	}

	key := rushHourKey(id)
	seq := s.seq.next()

	confirmed, err := apiclient.Patch[rushHourToggle](ctx, s.api, path, map[string]bool{"isRushHour": desired})
	if err != nil {
		return domain.Branch{}, err
	}

	return s.apply(id, key, seq, func() (domain.Branch, error) {
		return s.store.ApplyBranchRushHour(id, confirmed.IsRushHour)
	})
}

func (s *Service) apply(id, key string, seq uint64, fn func() (domain.Branch, error)) (domain.Branch, error) {
	var (
		b   domain.Branch
		err error
	)
	if s.seq.applyIfNewer(key, seq, func() { b, err = fn() }) {
		return b, err
	}

	s.logger.Info("discarding stale toggle response", zap.String("branchId", id), zap.String("flag", key), zap.Uint64("seq", seq))
	return s.store.Branch(id)
}

// path resolves the upstream resource of a known branch. The platform addresses
// branches by restaurant id when one is set.
func (s *Service) path(id, action string) (string, error) {
	b, err := s.store.Branch(id)
	if err != nil {
		return "", err
	}
	ref := b.ID
	if b.RestaurantID != "" {
		ref = b.RestaurantID
	}
	return fmt.Sprintf("/api/branches/%s/%s", url.PathEscape(ref), action), nil
}

func retryable(err error) bool {
	if _, ok := apperrors.IsNetworkError(err); ok {
		return true
	}
	if _, ok := apperrors.IsRequestTimeoutError(err); ok {
		return true
	}
	if ue, ok := apperrors.IsUpstreamError(err); ok {
		return ue.Status >= 500
	}
	return false
}

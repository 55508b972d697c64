package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwwei/user-center/internal/cache"
	"github.com/jwwei/user-center/internal/user/model"
)

// Cache and lock bounds for the derived-view read paths.
const (
	tagSearchTTL = 30 * time.Minute
	referralTTL  = 5 * time.Minute

	referralLockWait = 5 * time.Second
	referralLockHold = 30 * time.Second
)

// SearchByTags returns active users whose tag set contains all requested tags.
// Results are cached per (tags, page) for tagSearchTTL.
func (s *service) SearchByTags(ctx context.Context, currentUserID string, req *model.SearchByTagsRequest) (*model.Page, error) {
	req.Current, req.PageSize = normalizePaging(req.Current, req.PageSize)
	if len(req.Tags) == 0 {
		return model.EmptyPage(req.Current, req.PageSize), nil
	}

	key := fmt.Sprintf("user:search:by:tag_%s:page_%d:%d",
		strings.Join(req.Tags, ","), req.Current, req.PageSize)

	var cached model.Page
	err := s.store.GetObject(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnw("SearchByTags cache read failed", "key", key, "error", err)
	}

	users, err := s.repo.ListActive(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	matched := make([]model.User, 0, len(users))
	for i := range users {
		tags, err := users[i].TagList()
		if err != nil || len(tags) == 0 {
			continue
		}
		if containsAll(tags, req.Tags) {
			matched = append(matched, users[i])
		}
	}

	page := redactedPage(slicePage(matched, req.Current, req.PageSize),
		req.Current, req.PageSize, int64(len(matched)))

	if err := s.store.Set(ctx, key, page, tagSearchTTL); err != nil {
		s.logger.Warnw("SearchByTags cache write failed", "key", key, "error", err)
	}
	return page, nil
}

// Referral returns similarity-ranked user recommendations.
//
// The read path is cache-aside with a per-key lock so that concurrent misses
// on the same key do not recompute the view in parallel. A caller that fails
// to take the lock gets an empty page instead of blocking.
func (s *service) Referral(ctx context.Context, currentUserID string, req *model.ReferralRequest) (*model.Page, error) {
	req.Current, req.PageSize = normalizePaging(req.Current, req.PageSize)
	key := referralCacheKey(currentUserID, req.Current, req.PageSize, req.Tags)

	var cached model.Page
	err := s.store.GetObject(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnw("Referral cache read failed", "key", key, "error", err)
	}

	locked, err := s.locker.TryLock(ctx, key+"_", referralLockWait, referralLockHold)
	if err != nil {
		return nil, err
	}
	if !locked {
		s.logger.Warnw("Referral lock not acquired, degrading to empty page", "key", key)
		return model.EmptyPage(req.Current, req.PageSize), nil
	}
	defer func() {
		if err := s.locker.Unlock(ctx, key+"_"); err != nil {
			s.logger.Warnw("Referral lock release failed", "key", key, "error", err)
		}
	}()

	// Authorization state must come from durable storage; the snapshot only
	// feeds the candidate list.
	var currentUser *model.User
	if currentUserID != "" {
		currentUser, err = s.repo.GetByID(ctx, currentUserID)
		if err != nil && !errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
	}

	candidates := s.snapshot.ListExcluding(currentUserID)
	ranked := rankCandidates(currentUser, candidates)

	page := redactedPage(slicePage(ranked, req.Current, req.PageSize),
		req.Current, req.PageSize, int64(len(ranked)))

	if err := s.store.Set(ctx, key, page, referralTTL); err != nil {
		s.logger.Warnw("Referral cache write failed", "key", key, "error", err)
	}
	return page, nil
}

// referralCacheKey builds the recommendation cache key from the caller
// identity, clamped paging and the sorted tag list.
func referralCacheKey(userID string, current, pageSize int, tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return fmt.Sprintf("user:referral:data:%s:page_%d:%d:tags_%s",
		userID, current, pageSize, strings.Join(sorted, ","))
}

// rankCandidates orders recommendation candidates. When the caller has a
// parseable non-empty tag set, candidates with tags are scored by Jaccard
// similarity and sorted descending; otherwise the list falls back to
// creation-time descending with missing timestamps sorting lowest.
func rankCandidates(currentUser *model.User, candidates []model.User) []model.User {
	if currentUser != nil && currentUser.Tags != "" {
		callerTags, err := currentUser.TagList()
		if err == nil {
			scored := make([]model.User, 0, len(candidates))
			for i := range candidates {
				if candidates[i].Tags == "" {
					continue
				}
				candidateTags, err := candidates[i].TagList()
				if err != nil {
					candidates[i].Similarity = 0
				} else {
					candidates[i].Similarity = jaccardSimilarity(callerTags, candidateTags)
				}
				scored = append(scored, candidates[i])
			}
			sort.SliceStable(scored, func(i, j int) bool {
				return scored[i].Similarity > scored[j].Similarity
			})
			return scored
		}
	}

	sorted := make([]model.User, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// jaccardSimilarity computes |A∩B| / |A∪B| over two tag lists.
// An empty union yields 0.
func jaccardSimilarity(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	inA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		union[tag] = struct{}{}
		inA[tag] = struct{}{}
	}

	intersection := 0
	seen := make(map[string]struct{}, len(b))
	for _, tag := range b {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		union[tag] = struct{}{}
		if _, ok := inA[tag]; ok {
			intersection++
		}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// containsAll reports whether have contains every tag in want.
func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, tag := range have {
		set[tag] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}

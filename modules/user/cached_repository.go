package user

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	domain "github.com/example/task-manager/domain/user"
)

// Cacher is the cache used by CachedRepository. *cache.Cache satisfies it.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// CachedRepository serves FindByID from the cache.
// Users never change after creation so entries are only ever added.
type CachedRepository struct {
	Repository
	cache   Cacher
	log     zerolog.Logger
	sfGroup singleflight.Group
}

var _ Repository = (*CachedRepository)(nil)

// NewCachedRepository wraps next with a cache-aside lookup by id.
func NewCachedRepository(next Repository, c Cacher, log zerolog.Logger) *CachedRepository {
	return &CachedRepository{Repository: next, cache: c, log: log}
}

// sharedLookupTimeout bounds a store lookup shared by concurrent misses.
const sharedLookupTimeout = 5 * time.Second

func cacheKeyByID(id string) string {
	return "id:" + id
}

// FindByID checks the cache first. Cache failures fall through to the store.
func (r *CachedRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var cached domain.User
	found, err := r.cache.Get(ctx, cacheKeyByID(id), &cached)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
	}
	if found {
		return &cached, nil
	}

	// The lookup is shared, so one caller going away must not fail the others.
	val, err, _ := r.sfGroup.Do(id, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		return r.Repository.FindByID(lookupCtx, id)
	})
	if err != nil {
		return nil, err
	}

	u, ok := val.(*domain.User)
	if !ok || u == nil {
		return nil, nil
	}

	r.store(ctx, u)
	return u, nil
}

// Create writes through to the cache after the store accepted the user.
func (r *CachedRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := r.Repository.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	r.store(ctx, created)
	return created, nil
}

func (r *CachedRepository) store(ctx context.Context, u *domain.User) {
	if err := r.cache.Set(ctx, cacheKeyByID(u.ID), u); err != nil {
		r.log.Warn().Err(err).Str("user_id", u.ID).Msg("user cache write failed")
	}
}

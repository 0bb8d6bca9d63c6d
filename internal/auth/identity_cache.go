package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const identityCacheSize = 8 * 1024 * 1024

type IdentityResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// CachedIdentities keeps resolved identities in memory, so authenticated requests
// skip the users table lookup. Failed lookups are never cached.
type CachedIdentities struct {
	cache         *freecache.Cache
	resolver      IdentityResolver
	expireSeconds int
}

func NewCachedIdentities(resolver IdentityResolver, expire time.Duration) *CachedIdentities {
	return &CachedIdentities{
		cache:         freecache.NewCache(identityCacheSize),
		resolver:      resolver,
		expireSeconds: int(expire.Seconds()),
	}
}

func (c *CachedIdentities) Resolve(ctx context.Context, id uuid.UUID) (*Identity, error) {
	cacheKey := id[:]
	if identityBytes, err := c.cache.Get(cacheKey); err == nil {
		identity := &Identity{}
		if err := json.Unmarshal(identityBytes, identity); err == nil {
			return identity, nil
		} else {
			log.Errorf("unmarshal cached identity %s: %s", id, err)
		}
	}

	identity, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	identityBytes, err := json.Marshal(identity)
	if err != nil {
		log.Errorf("marshal identity %s: %s", id, err)
		return identity, nil
	}
	if err := c.cache.Set(cacheKey, identityBytes, c.expireSeconds); err != nil {
		log.Errorf("cache identity %s: %s", id, err)
	}

	return identity, nil
}

// Forget drops the cached identity of the given user
func (c *CachedIdentities) Forget(id uuid.UUID) {
	c.cache.Del(id[:])
}

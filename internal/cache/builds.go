// Package cache keeps recent weapon searches in memory in front of the store.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/meur/buildforge/internal/models"
)

// Store is the part of the storage layer the cache sits in front of
type Store interface {
	SearchBuilds(ctx context.Context, weapon string) ([]models.Build, error)
	GetBuild(ctx context.Context, id string) (*models.Build, error)
	CreateBuild(ctx context.Context, u *models.BuildUpdate) (*models.Build, error)
	UpdateBuild(ctx context.Context, id string, u *models.BuildUpdate) error
	DeleteBuild(ctx context.Context, id string) error
}

// Builds caches search results per weapon. Writes through it drop the
// entries of every weapon they touch.
type Builds struct {
	Store
	lru *expirable.LRU[string, []models.Build]

	// gen counts invalidations. A search only caches its rows when no
	// write finished while it was reading.
	mu  sync.Mutex
	gen uint64
}

// NewBuilds wraps store with a cache of size weapons kept for ttl
func NewBuilds(store Store, size int, ttl time.Duration) *Builds {
	return &Builds{
		Store: store,
		lru:   expirable.NewLRU[string, []models.Build](size, nil, ttl),
	}
}

// SearchBuilds serves from cache when possible. Callers must not modify
// the returned slice.
func (c *Builds) SearchBuilds(ctx context.Context, weapon string) ([]models.Build, error) {
	if cached, ok := c.lru.Get(weapon); ok {
		return cached, nil
	}
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	builds, err := c.Store.SearchBuilds(ctx, weapon)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.lru.Add(weapon, builds)
	}
	c.mu.Unlock()
	return builds, nil
}

func (c *Builds) invalidate(weapons ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for _, w := range weapons {
		c.lru.Remove(w)
	}
}

// CreateBuild stores a build and invalidates its weapon
func (c *Builds) CreateBuild(ctx context.Context, u *models.BuildUpdate) (*models.Build, error) {
	b, err := c.Store.CreateBuild(ctx, u)
	if err != nil {
		return nil, err
	}
	c.invalidate(u.Weapon)
	return b, nil
}

// UpdateBuild updates a build and invalidates both its old and new weapon
func (c *Builds) UpdateBuild(ctx context.Context, id string, u *models.BuildUpdate) error {
	old, err := c.Store.GetBuild(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Store.UpdateBuild(ctx, id, u); err != nil {
		return err
	}
	if old != nil {
		c.invalidate(old.Weapon, u.Weapon)
	} else {
		c.invalidate(u.Weapon)
	}
	return nil
}

// DeleteBuild removes a build and invalidates its weapon
func (c *Builds) DeleteBuild(ctx context.Context, id string) error {
	old, err := c.Store.GetBuild(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Store.DeleteBuild(ctx, id); err != nil {
		return err
	}
	if old != nil {
		c.invalidate(old.Weapon)
	}
	return nil
}

// Purge drops every cached search
func (c *Builds) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

// Len is the number of cached weapons
func (c *Builds) Len() int {
	return c.lru.Len()
}

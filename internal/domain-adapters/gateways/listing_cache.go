package gateways

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
)

// defaultListingCacheSize bounds how many repository listings are kept per run
const defaultListingCacheSize = 256

// CachingGateway decorates an ArtifactoryGateway so each repository is listed at most once.
// Only successful listings are cached; every other call passes through.
type CachingGateway struct {
	gateways.ArtifactoryGateway
	listings *lru.Cache[string, *entities.RepositoryListing]
}

// NewCachingGateway wraps next with a listing cache of the given size (256 when size <= 0)
func NewCachingGateway(next gateways.ArtifactoryGateway, size int) (*CachingGateway, error) {
	if size <= 0 {
		size = defaultListingCacheSize
	}
	cache, err := lru.New[string, *entities.RepositoryListing](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing cache: %w", err)
	}
	return &CachingGateway{
		ArtifactoryGateway: next,
		listings:           cache,
	}, nil
}

// Contents returns the cached listing for repository, fetching it on a miss
func (c *CachingGateway) Contents(ctx context.Context, repository string) (*entities.RepositoryListing, error) {
	if listing, ok := c.listings.Get(repository); ok {
		return listing, nil
	}

	listing, err := c.ArtifactoryGateway.Contents(ctx, repository)
	if err != nil {
		return nil, err
	}

	c.listings.Add(repository, listing)
	return listing, nil
}

// Purge drops every cached listing
func (c *CachingGateway) Purge() {
	c.listings.Purge()
}

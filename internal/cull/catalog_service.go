package cull

import (
	"context"
	"fmt"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/rs/zerolog"
)

// CatalogService owns the photo source and catalog scans.
type CatalogService struct {
	source catalog.Source
	log    zerolog.Logger
}

// NewCatalogService creates a CatalogService backed by the configured
// photo directory.
func NewCatalogService(cfg *config.Config, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		source: catalog.NewDirSource(cfg.SourceConfig()),
		log:    log,
	}
}

// Source returns the underlying photo source.
func (c *CatalogService) Source() catalog.Source {
	return c.source
}

// Scan lists the full catalog, newest first.
func (c *CatalogService) Scan(ctx context.Context) ([]catalog.Photo, error) {
	photos, err := c.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	c.log.Debug().Int("count", len(photos)).Msg("catalog scanned")
	return photos, nil
}

// Delete removes the given photo paths through the source, honoring the
// configured delete mode.
func (c *CatalogService) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	c.log.Info().Int("count", len(ids)).Msg("deleting photos")
	return c.source.Delete(ctx, ids)
}

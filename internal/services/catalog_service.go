package services

import (
	"context"
	"fmt"

	"github.com/funtravel/tours-backend/internal/cache"
	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/sirupsen/logrus"
)

// CatalogService fronts the CMS catalog. It translates transport failures into
// the service error taxonomy and keeps a short-lived cache of single-tour
// lookups, which cart and order reads issue once per line.
type CatalogService struct {
	catalog TourCatalog
	cache   *cache.TourCache
	logger  *logrus.Logger
}

// NewCatalogService creates a new CatalogService. The cache may be nil, in
// which case every lookup goes to the CMS.
func NewCatalogService(catalog TourCatalog, tourCache *cache.TourCache, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		cache:   tourCache,
		logger:  logger,
	}
}

// GetTour retrieves a tour by slug. Returns (nil, nil) when the slug is not in
// the catalog. Only destination-free lookups are cached; the destination
// variant is rare (reconciliation) and not worth a second key space.
func (s *CatalogService) GetTour(ctx context.Context, slug string, includeDestination bool) (*strapi.Tour, error) {
	if !includeDestination {
		if tour := s.cache.Get(ctx, slug); tour != nil {
			return tour, nil
		}
	}

	tour, err := s.catalog.GetTour(ctx, slug, includeDestination)
	if err != nil {
		s.logger.WithError(err).WithField("slug", slug).Error("Catalog tour lookup failed")
		return nil, fmt.Errorf("catalog lookup for tour %s: %w", slug, models.ErrUpstreamUnavailable)
	}

	if tour != nil && !includeDestination {
		s.cache.Set(ctx, tour)
	}
	return tour, nil
}

// GetTours retrieves all tours, optionally filtered by destination slug
func (s *CatalogService) GetTours(ctx context.Context, destinationSlug string, includeDestination bool) ([]strapi.Tour, error) {
	tours, err := s.catalog.GetTours(ctx, destinationSlug, includeDestination)
	if err != nil {
		s.logger.WithError(err).Error("Catalog tours listing failed")
		return nil, fmt.Errorf("catalog tours listing: %w", models.ErrUpstreamUnavailable)
	}
	return tours, nil
}

// GetDestination retrieves a destination by slug. Returns (nil, nil) when the
// slug is not in the catalog.
func (s *CatalogService) GetDestination(ctx context.Context, slug string, includeTours bool) (*strapi.Destination, error) {
	destination, err := s.catalog.GetDestination(ctx, slug, includeTours)
	if err != nil {
		s.logger.WithError(err).WithField("slug", slug).Error("Catalog destination lookup failed")
		return nil, fmt.Errorf("catalog lookup for destination %s: %w", slug, models.ErrUpstreamUnavailable)
	}
	return destination, nil
}

// GetDestinations retrieves all destinations
func (s *CatalogService) GetDestinations(ctx context.Context, includeTours bool) ([]strapi.Destination, error) {
	destinations, err := s.catalog.GetDestinations(ctx, includeTours)
	if err != nil {
		s.logger.WithError(err).Error("Catalog destinations listing failed")
		return nil, fmt.Errorf("catalog destinations listing: %w", models.ErrUpstreamUnavailable)
	}
	return destinations, nil
}

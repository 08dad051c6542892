// Package geocode resolves location addresses to coordinates with a
// write-through cache on the location record. A failed or empty lookup
// is reported as unresolved, never as an error, and no backoff state
// is kept between attempts.
package geocode

import (
	"context"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/geocoder"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// Geocoder is the external lookup collaborator.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geocoder.Point, bool, error)
}

// Result carries the coordinates, if any.
type Result struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Resolved bool    `json:"resolved"`
}

// Service resolves and caches location coordinates.
type Service interface {
	Resolve(ctx context.Context, locationID string) (Result, error)
}

type service struct {
	store    document.Store
	geocoder Geocoder
	log      *logger.Logger
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store    document.Store
	Geocoder Geocoder
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "document store is required")
	}
	if params.Geocoder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "geocoder is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		store:    params.Store,
		geocoder: params.Geocoder,
		log:      params.Logger,
	}, nil
}

// Resolve returns the location's coordinates, looking them up and
// persisting them on first use. Cached coordinates short-circuit the
// network call entirely.
func (s *service) Resolve(ctx context.Context, locationID string) (Result, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	location := doc.LocationByID(locationID)
	if location == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}

	if location.Lat != nil && location.Lon != nil {
		return Result{Lat: *location.Lat, Lon: *location.Lon, Resolved: true}, nil
	}

	point, found, err := s.geocoder.Geocode(ctx, location.Address)
	if err != nil {
		s.log.Warn(ctx, "geocode lookup failed: "+err.Error())
		return Result{}, nil
	}
	if !found {
		return Result{}, nil
	}

	location.Lat = &point.Lat
	location.Lon = &point.Lon
	if err := s.store.Save(ctx, doc); err != nil {
		return Result{}, err
	}
	return Result{Lat: point.Lat, Lon: point.Lon, Resolved: true}, nil
}

// Package sites manages service locations. Removing a location never
// cascades into jobs.
package sites

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// CreateLocationInput carries the fields for a new location.
type CreateLocationInput struct {
	Name    string
	Address string
}

// UpdateLocationInput is a partial update; nil fields are left alone.
// Changing the address drops the cached coordinates so the next
// resolve looks the new address up.
type UpdateLocationInput struct {
	Name    *string
	Address *string
}

// Service manages locations.
type Service interface {
	List(ctx context.Context) ([]document.Location, error)
	Create(ctx context.Context, input CreateLocationInput) (document.Location, error)
	Update(ctx context.Context, locationID string, input UpdateLocationInput) (document.Location, error)
	Delete(ctx context.Context, locationID string) error
}

type service struct {
	store document.Store
	log   *logger.Logger
	newID func() string
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Store  document.Store
	Logger *logger.Logger
	NewID  func() string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "document store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}
	return &service{store: params.Store, log: params.Logger, newID: params.NewID}, nil
}

func (s *service) List(ctx context.Context) ([]document.Location, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Locations, nil
}

func (s *service) Create(ctx context.Context, input CreateLocationInput) (document.Location, error) {
	if input.Name == "" {
		return document.Location{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Location{}, err
	}

	location := document.Location{
		ID:      s.newID(),
		Name:    input.Name,
		Address: input.Address,
		MapURL:  MapURL(input.Address),
	}
	doc.Locations = append(doc.Locations, location)

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Location{}, err
	}
	return location, nil
}

func (s *service) Update(ctx context.Context, locationID string, input UpdateLocationInput) (document.Location, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Location{}, err
	}
	location := doc.LocationByID(locationID)
	if location == nil {
		return document.Location{}, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return document.Location{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		location.Name = *input.Name
	}
	if input.Address != nil {
		location.Address = *input.Address
		location.MapURL = MapURL(*input.Address)
		location.Lat = nil
		location.Lon = nil
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Location{}, err
	}
	return *location, nil
}

func (s *service) Delete(ctx context.Context, locationID string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range doc.Locations {
		if doc.Locations[i].ID == locationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	doc.Locations = append(doc.Locations[:idx], doc.Locations[idx+1:]...)
	return s.store.Save(ctx, doc)
}

// MapURL builds a maps search link for the address, or "" if there is
// no address to link.
func MapURL(address string) string {
	if address == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s", url.QueryEscape(address))
}

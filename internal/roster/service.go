// Package roster manages the technician list. Removing a technician
// never cascades into jobs; their jobs keep the dangling reference and
// render as unassigned.
package roster

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/mwickstrom1817/5gjobs/internal/document"
	pkgerrors "github.com/mwickstrom1817/5gjobs/pkg/errors"
	"github.com/mwickstrom1817/5gjobs/pkg/logger"
)

// Avatar colors assigned round-robin as technicians are added.
var techColors = []string{
	"#7f1d1d", "#3f3f46", "#b91c1c", "#52525b", "#991b1b", "#7c2d12", "#292524",
}

// CreateTechInput carries the fields for a new technician.
type CreateTechInput struct {
	Name  string
	Email string
}

// UpdateTechInput is a partial update; nil fields are left alone.
type UpdateTechInput struct {
	Name  *string
	Email *string
}

// Service manages technicians.
type Service interface {
	List(ctx context.Context) ([]document.Technician, error)
	Create(ctx context.Context, input CreateTechInput) (document.Technician, error)
	Update(ctx context.Context, techID string, input UpdateTechInput) (document.Technician, error)
	Delete(ctx context.Context, techID string) error
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

func (s *service) List(ctx context.Context) ([]document.Technician, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Techs, nil
}

func (s *service) Create(ctx context.Context, input CreateTechInput) (document.Technician, error) {
	if input.Name == "" || input.Email == "" {
		return document.Technician{}, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Technician{}, err
	}

	tech := document.Technician{
		ID:       s.newID(),
		Name:     input.Name,
		Email:    input.Email,
		Initials: Initials(input.Name),
		Color:    techColors[len(doc.Techs)%len(techColors)],
	}
	doc.Techs = append(doc.Techs, tech)

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Technician{}, err
	}
	return tech, nil
}

func (s *service) Update(ctx context.Context, techID string, input UpdateTechInput) (document.Technician, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return document.Technician{}, err
	}
	tech := doc.TechByID(techID)
	if tech == nil {
		return document.Technician{}, pkgerrors.New(pkgerrors.CodeNotFound, "technician not found")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return document.Technician{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		tech.Name = *input.Name
		tech.Initials = Initials(*input.Name)
	}
	if input.Email != nil {
		if *input.Email == "" {
			return document.Technician{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		tech.Email = *input.Email
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return document.Technician{}, err
	}
	return *tech, nil
}

func (s *service) Delete(ctx context.Context, techID string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range doc.Techs {
		if doc.Techs[i].ID == techID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "technician not found")
	}
	// Jobs referencing this tech keep their techId and display as
	// unassigned.
	doc.Techs = append(doc.Techs[:idx], doc.Techs[idx+1:]...)
	return s.store.Save(ctx, doc)
}

// Initials derives the avatar initials from a name: first letter of
// each word, uppercased, at most two.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		runes := []rune(word)
		initials = append(initials, unicode.ToUpper(runes[0]))
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

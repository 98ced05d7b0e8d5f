package sources

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSourceInput holds the fields accepted when creating an ad source.
type CreateSourceInput struct {
	Name      string
	Slug      string
	Color     string
	SortOrder int
}

// UpdateSourceInput holds the mutable fields of an ad source. Nil fields are
// left untouched.
type UpdateSourceInput struct {
	Name      *string
	Color     *string
	SortOrder *int
}

// Service exposes ad source management.
type Service interface {
	CreateSource(ctx context.Context, input CreateSourceInput) (*models.AdSource, error)
	GetSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error)
	ListSources(ctx context.Context, includeInactive bool) ([]models.AdSource, error)
	UpdateSource(ctx context.Context, id uuid.UUID, input UpdateSourceInput) (*models.AdSource, error)
	DeactivateSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error)
}

type service struct {
	repo Repository
}

// NewService builds a sources service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sources repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateSource(ctx context.Context, input CreateSourceInput) (*models.AdSource, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source name required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source slug required")
	}
	source := &models.AdSource{
		Name:      name,
		Slug:      slug,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if color := strings.TrimSpace(input.Color); color != "" {
		source.Color = color
	}
	created, err := s.repo.Create(ctx, source)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "source slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create source")
	}
	return created, nil
}

func (s *service) GetSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source id required")
	}
	source, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "source not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find source")
	}
	return source, nil
}

func (s *service) ListSources(ctx context.Context, includeInactive bool) ([]models.AdSource, error) {
	sources, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sources")
	}
	return sources, nil
}

func (s *service) UpdateSource(ctx context.Context, id uuid.UUID, input UpdateSourceInput) (*models.AdSource, error) {
	source, err := s.GetSource(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "source name cannot be empty")
		}
		source.Name = name
	}
	if input.Color != nil {
		source.Color = strings.TrimSpace(*input.Color)
	}
	if input.SortOrder != nil {
		source.SortOrder = *input.SortOrder
	}
	if err := s.repo.Update(ctx, source); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update source")
	}
	return source, nil
}

func (s *service) DeactivateSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	source, err := s.GetSource(ctx, id)
	if err != nil {
		return nil, err
	}
	if !source.IsActive {
		return source, nil
	}
	source.IsActive = false
	if err := s.repo.Update(ctx, source); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate source")
	}
	return source, nil
}

// Slugify lowercases name and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/activity"
	"github.com/simpok/backend/internal/domain/shared"
)

// Service provides application-level activity operations
type Service struct {
	repo activity.Repository
}

// NewService creates a new activity Service
func NewService(repo activity.Repository) *Service {
	return &Service{repo: repo}
}

// Response represents an activity in API responses
type Response struct {
	ID           uuid.UUID  `json:"id"`
	BudgetLineID *uuid.UUID `json:"budget_line_id,omitempty"`
	Name         string     `json:"name"`
	Kind         string     `json:"kind"`
	LocationType string     `json:"location_type"`
	Venue        string     `json:"venue,omitempty"`
	Agenda       string     `json:"agenda,omitempty"`
	Organizer    string     `json:"organizer,omitempty"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateRequest represents a request to create an activity
type CreateRequest struct {
	BudgetLineID *uuid.UUID `json:"budget_line_id"`
	Name         string     `json:"name" binding:"required,max=255"`
	Kind         string     `json:"kind" binding:"required"`
	LocationType string     `json:"location_type" binding:"required"`
	Venue        string     `json:"venue"`
	Agenda       string     `json:"agenda"`
	Organizer    string     `json:"organizer"`
	StartsAt     time.Time  `json:"starts_at" binding:"required"`
	EndsAt       *time.Time `json:"ends_at"`
}

// UpdateRequest represents a request to update an activity
type UpdateRequest struct {
	BudgetLineID *uuid.UUID `json:"budget_line_id"`
	Name         string     `json:"name" binding:"required,max=255"`
	Kind         string     `json:"kind" binding:"required"`
	LocationType string     `json:"location_type" binding:"required"`
	Venue        string     `json:"venue"`
	Agenda       string     `json:"agenda"`
	Organizer    string     `json:"organizer"`
	StartsAt     time.Time  `json:"starts_at" binding:"required"`
	EndsAt       *time.Time `json:"ends_at"`
}

// ListFilter defines filtering options for activity list queries
type ListFilter struct {
	Year         *int       `form:"year"`
	BudgetLineID *uuid.UUID `form:"-"`
	Search       string     `form:"search"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
}

// Create creates a new activity
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateRequest) (*Response, error) {
	a, err := activity.NewActivity(
		ownerID,
		req.Name,
		activity.Kind(req.Kind),
		activity.LocationType(req.LocationType),
		req.StartsAt,
	)
	if err != nil {
		return nil, err
	}
	if err := a.SetSchedule(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	a.SetDetails(req.Venue, req.Agenda, req.Organizer)
	a.LinkBudgetLine(req.BudgetLineID)

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return toResponse(a), nil
}

// GetByID gets an activity by ID
func (s *Service) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Response, error) {
	a, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Activity not found")
	}
	return toResponse(a), nil
}

// List lists activities, optionally restricted to one year or to a
// single budget line
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
	activities, total, err := s.repo.FindAllForOwner(ctx, ownerID, filter.Year, filter.BudgetLineID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(activities))
	for _, a := range activities {
		responses = append(responses, *toResponse(a))
	}
	return responses, total, nil
}

// Update updates an activity
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateRequest) (*Response, error) {
	a, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Activity not found")
	}

	kind := activity.Kind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Activity kind is not valid")
	}
	locationType := activity.LocationType(req.LocationType)
	if !locationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location type is not valid")
	}

	a.Name = req.Name
	a.Kind = kind
	a.LocationType = locationType
	if err := a.SetSchedule(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	a.SetDetails(req.Venue, req.Agenda, req.Organizer)
	a.LinkBudgetLine(req.BudgetLineID)

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return toResponse(a), nil
}

// Delete removes an activity
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	a, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if a == nil {
		return shared.NewDomainError("NOT_FOUND", "Activity not found")
	}
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}

func toResponse(a *activity.Activity) *Response {
	return &Response{
		ID:           a.ID,
		BudgetLineID: a.BudgetLineID,
		Name:         a.Name,
		Kind:         a.Kind.String(),
		LocationType: a.LocationType.String(),
		Venue:        a.Venue,
		Agenda:       a.Agenda,
		Organizer:    a.Organizer,
		StartsAt:     a.StartsAt,
		EndsAt:       a.EndsAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domainactivity "github.com/simpok/backend/internal/domain/activity"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Save(ctx context.Context, a *domainactivity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domainactivity.Activity, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainactivity.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, year *int, budgetLineID *uuid.UUID, filter shared.Filter) ([]*domainactivity.Activity, int64, error) {
	args := m.Called(ctx, ownerID, year, budgetLineID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domainactivity.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	start := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)

	t.Run("creates with schedule and details", func(t *testing.T) {
		repo := new(MockActivityRepository)
		svc := NewService(repo)

		repo.On("Save", ctx, mock.MatchedBy(func(a *domainactivity.Activity) bool {
			return a.Name == "Rapat Koordinasi" && a.Venue == "Aula Lantai 3"
		})).Return(nil)

		end := start.Add(3 * time.Hour)
		resp, err := svc.Create(ctx, ownerID, CreateRequest{
			Name:         "Rapat Koordinasi",
			Kind:         "MEETING",
			LocationType: "ONSITE",
			Venue:        "Aula Lantai 3",
			Organizer:    "Subbag Umum",
			StartsAt:     start,
			EndsAt:       &end,
		})
		require.NoError(t, err)
		assert.Equal(t, "MEETING", resp.Kind)
		assert.Equal(t, end, *resp.EndsAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		repo := new(MockActivityRepository)
		svc := NewService(repo)

		bad := start.Add(-time.Hour)
		_, err := svc.Create(ctx, ownerID, CreateRequest{
			Name:         "Rapat",
			Kind:         "MEETING",
			LocationType: "ONSITE",
			StartsAt:     start,
			EndsAt:       &bad,
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	start := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)

	repo := new(MockActivityRepository)
	svc := NewService(repo)

	a, err := domainactivity.NewActivity(ownerID, "Rapat", domainactivity.KindMeeting, domainactivity.LocationOnsite, start)
	require.NoError(t, err)

	repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
	repo.On("Save", ctx, a).Return(nil)

	resp, err := svc.Update(ctx, ownerID, a.ID, UpdateRequest{
		Name:         "Bimtek Pengelolaan Anggaran",
		Kind:         "TRAINING",
		LocationType: "ONLINE",
		StartsAt:     start,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRAINING", resp.Kind)
	assert.Equal(t, "ONLINE", resp.LocationType)
}

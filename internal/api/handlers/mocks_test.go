package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// --- Mocks ---

// MockPropertyService implements services.IPropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, actor services.Actor, input services.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindPropertyByID(ctx context.Context, propertyID utils.SixID) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) GetProperty(ctx context.Context, propertyID utils.SixID, actor services.Actor) (*models.Property, error) {
	args := m.Called(ctx, propertyID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) UpdateProperty(ctx context.Context, propertyID utils.SixID, actor services.Actor, updates services.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, propertyID, actor, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Approve(ctx context.Context, propertyID utils.SixID, actor services.Actor) (*models.Property, error) {
	args := m.Called(ctx, propertyID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Reject(ctx context.Context, propertyID utils.SixID, actor services.Actor) error {
	args := m.Called(ctx, propertyID, actor)
	return args.Error(0)
}

func (m *MockPropertyService) MarkSold(ctx context.Context, propertyID utils.SixID, actor services.Actor) (*models.Property, error) {
	args := m.Called(ctx, propertyID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, propertyID utils.SixID, actor services.Actor) error {
	args := m.Called(ctx, propertyID, actor)
	return args.Error(0)
}

func (m *MockPropertyService) AddFiles(ctx context.Context, propertyID utils.SixID, actor services.Actor, files []services.NewMediaFile) (*models.Property, error) {
	args := m.Called(ctx, propertyID, actor, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) RemoveFile(ctx context.Context, propertyID utils.SixID, fileID int, actor services.Actor) (*models.Property, error) {
	args := m.Called(ctx, propertyID, fileID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Search(ctx context.Context, filter services.PropertySearchFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) FindByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) ListPending(ctx context.Context, limit int) ([]models.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

// MockLeadService implements services.ILeadService.
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) CreateLead(ctx context.Context, actor services.Actor, input services.LeadInput) (*models.Lead, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) FindLeadByID(ctx context.Context, leadID utils.SixID, actor services.Actor) (*models.Lead, error) {
	args := m.Called(ctx, leadID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) FindLeadsByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Lead, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *MockLeadService) ListAllLeads(ctx context.Context, actor services.Actor, limit int) ([]models.Lead, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *MockLeadService) SetStatus(ctx context.Context, leadID utils.SixID, actor services.Actor, status models.LeadStatus) (*models.Lead, error) {
	args := m.Called(ctx, leadID, actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) AddComment(ctx context.Context, leadID utils.SixID, actor services.Actor, text string) (*models.Lead, error) {
	args := m.Called(ctx, leadID, actor, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, leadID utils.SixID, actor services.Actor) error {
	args := m.Called(ctx, leadID, actor)
	return args.Error(0)
}

func (m *MockLeadService) DeleteLeadsByOwner(ctx context.Context, ownerID utils.SixID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// MockFavoriteService implements services.IFavoriteService.
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, propertyID utils.SixID) (*models.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, userID, propertyID utils.SixID) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

func (m *MockFavoriteService) ListFavorites(ctx context.Context, userID utils.SixID) ([]models.Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

// MockUserService implements services.IUserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, phone, password string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, name, email, phone, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) AddKycDocument(ctx context.Context, userID utils.SixID, actor services.Actor, key, kind string) (*models.User, error) {
	args := m.Called(ctx, userID, actor, key, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) VerifyUser(ctx context.Context, userID utils.SixID, actor services.Actor) (*models.User, error) {
	args := m.Called(ctx, userID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetStatus(ctx context.Context, userID utils.SixID, actor services.Actor, status models.UserStatus) (*models.User, error) {
	args := m.Called(ctx, userID, actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID utils.SixID, actor services.Actor) error {
	args := m.Called(ctx, userID, actor)
	return args.Error(0)
}

// MockSettingsService implements services.ISettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) PublicConfig(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockSettingsService) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockSettingsService) Set(ctx context.Context, actor services.Actor, key string, value interface{}) error {
	args := m.Called(ctx, actor, key, value)
	return args.Error(0)
}

func (m *MockSettingsService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

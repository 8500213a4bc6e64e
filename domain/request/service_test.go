package request

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/photo-gallery-sub001/domain/authz"
)

// ============================================================================
// MOCKS
// ============================================================================

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, r *UserRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*UserRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRequest), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, r *UserRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequestRepository) List(ctx context.Context, filters ListFilters) ([]*UserRequest, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*UserRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) AddComment(ctx context.Context, c *Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRequestRepository) ListComments(ctx context.Context, requestID uuid.UUID) ([]*Comment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Comment), args.Error(1)
}

// ============================================================================
// HELPERS
// ============================================================================

func memberCtx(userID, guildID string, admin bool) authz.AuthContext {
	return authz.AuthContext{
		UserID:  userID,
		IsAdmin: admin,
		GuildIDs: map[string]struct{}{
			guildID: {},
		},
	}
}

func superAdminCtx(userID string) authz.AuthContext {
	return authz.AuthContext{UserID: userID, IsSuperAdmin: true, GuildIDs: map[string]struct{}{}}
}

// ============================================================================
// TESTS
// ============================================================================

func TestService_Create_RequiresAdminOfGuild(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	nonAdmin := authz.AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{"g1": {}}}
	_, err := svc.Create(context.Background(), nonAdmin, "g1", "New gallery", "please", nil)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_Succeeds(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	actx := memberCtx("u1", "g1", true)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*request.UserRequest")).Return(nil)

	r, err := svc.Create(context.Background(), actx, "g1", "New gallery", "please", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, "u1", r.UserID)
	repo.AssertExpectations(t)
}

func TestService_Cancel_OwnerCanCancelOpenRequest(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusOpen}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*request.UserRequest")).Return(nil)

	actx := authz.AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}
	r, err := svc.Cancel(context.Background(), actx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, r.Status)
}

func TestService_Cancel_NonOwnerDenied(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusOpen}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	actx := authz.AuthContext{UserID: "someoneElse", GuildIDs: map[string]struct{}{}}
	_, err := svc.Cancel(context.Background(), actx, id)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_ChangeStatus_RequiresSuperAdmin(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusOpen}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	admin := memberCtx("admin1", "g1", true)
	_, err := svc.ChangeStatus(context.Background(), admin, id, authz.ActionApprove)
	require.Error(t, err)
}

func TestService_ChangeStatus_ApproveTransitionsToApproved(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusOpen}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*request.UserRequest")).Return(nil)

	r, err := svc.ChangeStatus(context.Background(), superAdminCtx("root"), id, authz.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, r.Status)
}

func TestService_ChangeStatus_InvalidTransitionRejected(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusDenied}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	_, err := svc.ChangeStatus(context.Background(), superAdminCtx("root"), id, authz.ActionApprove)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_AddComment_RejectedOnClosedRequest(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	existing := &UserRequest{ID: id, GuildID: "g1", UserID: "u1", Status: StatusClosed}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	actx := authz.AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}
	_, err := svc.AddComment(context.Background(), actx, id, "still there?")
	require.Error(t, err)
	repo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
}

func TestService_Get_NotFoundMapsToApperror(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, ErrRequestNotFound)

	_, err := svc.Get(context.Background(), superAdminCtx("root"), id)
	require.Error(t, err)
}

func TestService_List_RequiresAdmin(t *testing.T) {
	repo := new(MockRequestRepository)
	svc := NewService(repo)

	nonAdmin := authz.AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}
	_, err := svc.List(context.Background(), nonAdmin, ListFilters{Page: 1, Limit: 10})
	require.Error(t, err)
}

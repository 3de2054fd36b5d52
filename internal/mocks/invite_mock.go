package mocks

import (
	"context"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/stretchr/testify/mock"
)

type InviteRepoMock struct {
	mock.Mock
}

func (m *InviteRepoMock) CreateWaitlistInvitation(ctx context.Context, inv *models.WaitlistInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InviteRepoMock) GetWaitlistInvitation(ctx context.Context, token string) (*models.WaitlistInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WaitlistInvitation), args.Error(1)
}

func (m *InviteRepoMock) ConsumeWaitlistInvitation(ctx context.Context, token string, now time.Time, user *models.User) error {
	args := m.Called(ctx, token, now, user)
	return args.Error(0)
}

func (m *InviteRepoMock) CreateGroup(ctx context.Context, group *models.Group, owner *models.GroupMember) error {
	args := m.Called(ctx, group, owner)
	return args.Error(0)
}

func (m *InviteRepoMock) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *InviteRepoMock) IsGroupMember(ctx context.Context, groupID uint, email string) (bool, error) {
	args := m.Called(ctx, groupID, email)
	return args.Bool(0), args.Error(1)
}

func (m *InviteRepoMock) CreateGroupInvitation(ctx context.Context, inv *models.GroupInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InviteRepoMock) GetGroupInvitation(ctx context.Context, token string) (*models.GroupInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupInvitation), args.Error(1)
}

func (m *InviteRepoMock) AcceptGroupInvitation(ctx context.Context, token string, now time.Time, member *models.GroupMember) error {
	args := m.Called(ctx, token, now, member)
	return args.Error(0)
}

func (m *InviteRepoMock) DeclineGroupInvitation(ctx context.Context, token string, now time.Time) error {
	args := m.Called(ctx, token, now)
	return args.Error(0)
}

func (m *InviteRepoMock) CreatePurchaseActivation(ctx context.Context, act *models.PurchaseActivation) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *InviteRepoMock) GetPurchaseActivation(ctx context.Context, token string) (*models.PurchaseActivation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseActivation), args.Error(1)
}

func (m *InviteRepoMock) ConsumePurchaseActivation(ctx context.Context, token string, now time.Time, user *models.User) error {
	args := m.Called(ctx, token, now, user)
	return args.Error(0)
}

type InviteServiceMock struct {
	mock.Mock
}

func (m *InviteServiceMock) issued(args mock.Arguments) (*dto.IssuedTokenDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IssuedTokenDTO), args.Error(1)
}

func (m *InviteServiceMock) status(args mock.Arguments) (*dto.TokenStatusDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenStatusDTO), args.Error(1)
}

func (m *InviteServiceMock) result(args mock.Arguments) (*dto.AcceptResultDTO, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AcceptResultDTO), args.Error(1)
}

func (m *InviteServiceMock) IssueWaitlistInvitation(ctx context.Context, email string) (*dto.IssuedTokenDTO, error) {
	return m.issued(m.Called(ctx, email))
}

func (m *InviteServiceMock) VerifyWaitlistInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	return m.status(m.Called(ctx, token))
}

func (m *InviteServiceMock) AcceptWaitlistInvitation(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error) {
	return m.result(m.Called(ctx, token, req))
}

func (m *InviteServiceMock) CreateGroup(ctx context.Context, name, ownerEmail string) (*dto.GroupResponseDTO, error) {
	args := m.Called(ctx, name, ownerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GroupResponseDTO), args.Error(1)
}

func (m *InviteServiceMock) IssueGroupInvitation(ctx context.Context, groupID uint, email, invitedBy string, asAdmin bool) (*dto.IssuedTokenDTO, error) {
	return m.issued(m.Called(ctx, groupID, email, invitedBy, asAdmin))
}

func (m *InviteServiceMock) VerifyGroupInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	return m.status(m.Called(ctx, token))
}

func (m *InviteServiceMock) AcceptGroupInvitation(ctx context.Context, token string, req *dto.GroupAcceptDTO) (*dto.AcceptResultDTO, error) {
	return m.result(m.Called(ctx, token, req))
}

func (m *InviteServiceMock) DeclineGroupInvitation(ctx context.Context, token string) (*dto.AcceptResultDTO, error) {
	return m.result(m.Called(ctx, token))
}

func (m *InviteServiceMock) IssuePurchaseActivation(ctx context.Context, email string, metadata []byte) (*dto.IssuedTokenDTO, error) {
	return m.issued(m.Called(ctx, email, metadata))
}

func (m *InviteServiceMock) VerifyPurchaseActivation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	return m.status(m.Called(ctx, token))
}

func (m *InviteServiceMock) ActivatePurchase(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error) {
	return m.result(m.Called(ctx, token, req))
}

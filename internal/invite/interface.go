package invite

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
)

var (
	// ErrTokenUnavailable is returned by the consume operations when the
	// conditional update matched no row: the token is unknown, expired or
	// already consumed.
	ErrTokenUnavailable = errors.New("token unavailable")
	ErrAlreadyMember    = errors.New("already a group member")
	ErrEmailRegistered  = errors.New("email already registered")
)

// InviteRepoInterface defines persistence for the three token kinds.
type InviteRepoInterface interface {
	CreateWaitlistInvitation(ctx context.Context, inv *models.WaitlistInvitation) error
	GetWaitlistInvitation(ctx context.Context, token string) (*models.WaitlistInvitation, error)
	ConsumeWaitlistInvitation(ctx context.Context, token string, now time.Time, user *models.User) error

	CreateGroup(ctx context.Context, group *models.Group, owner *models.GroupMember) error
	GetGroup(ctx context.Context, id uint) (*models.Group, error)
	IsGroupMember(ctx context.Context, groupID uint, email string) (bool, error)
	CreateGroupInvitation(ctx context.Context, inv *models.GroupInvitation) error
	GetGroupInvitation(ctx context.Context, token string) (*models.GroupInvitation, error)
	AcceptGroupInvitation(ctx context.Context, token string, now time.Time, member *models.GroupMember) error
	DeclineGroupInvitation(ctx context.Context, token string, now time.Time) error

	CreatePurchaseActivation(ctx context.Context, act *models.PurchaseActivation) error
	GetPurchaseActivation(ctx context.Context, token string) (*models.PurchaseActivation, error)
	ConsumePurchaseActivation(ctx context.Context, token string, now time.Time, user *models.User) error
}

// InviteServiceInterface defines token issuance, verification and consumption.
type InviteServiceInterface interface {
	IssueWaitlistInvitation(ctx context.Context, email string) (*dto.IssuedTokenDTO, error)
	VerifyWaitlistInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error)
	AcceptWaitlistInvitation(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error)

	CreateGroup(ctx context.Context, name, ownerEmail string) (*dto.GroupResponseDTO, error)
	IssueGroupInvitation(ctx context.Context, groupID uint, email, invitedBy string, asAdmin bool) (*dto.IssuedTokenDTO, error)
	VerifyGroupInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error)
	AcceptGroupInvitation(ctx context.Context, token string, req *dto.GroupAcceptDTO) (*dto.AcceptResultDTO, error)
	DeclineGroupInvitation(ctx context.Context, token string) (*dto.AcceptResultDTO, error)

	IssuePurchaseActivation(ctx context.Context, email string, metadata []byte) (*dto.IssuedTokenDTO, error)
	VerifyPurchaseActivation(ctx context.Context, token string) (*dto.TokenStatusDTO, error)
	ActivatePurchase(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error)
}

// InviteHandlerInterface defines the HTTP surface.
type InviteHandlerInterface interface {
	IssueWaitlist(c *gin.Context)
	VerifyWaitlist(c *gin.Context)
	AcceptWaitlist(c *gin.Context)

	CreateGroup(c *gin.Context)
	IssueGroup(c *gin.Context)
	VerifyGroup(c *gin.Context)
	AcceptGroup(c *gin.Context)
	DeclineGroup(c *gin.Context)

	IssueActivation(c *gin.Context)
	VerifyActivation(c *gin.Context)
	Activate(c *gin.Context)
}

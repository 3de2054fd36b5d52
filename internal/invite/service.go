package invite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InviteService struct {
	repo InviteRepoInterface

	waitlistTTL time.Duration
	groupTTL    time.Duration

	now          func() time.Time
	newToken     func() (string, error)
	hashPassword func(string) (string, error)
	log          *slog.Logger
}

func NewInviteService(repo InviteRepoInterface, waitlistTTL, groupTTL time.Duration, logger *slog.Logger) *InviteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InviteService{
		repo:         repo,
		waitlistTTL:  waitlistTTL,
		groupTTL:     groupTTL,
		now:          func() time.Time { return time.Now().UTC() },
		newToken:     GenerateToken,
		hashPassword: bcryptHash,
		log:          logger,
	}
}

var _ InviteServiceInterface = (*InviteService)(nil)

func bcryptHash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

var (
	errInvalid         = common.StateErr(http.StatusNotFound, config.TokenStateInvalid, "invitation not found")
	errExpired         = common.StateErr(http.StatusGone, config.TokenStateExpired, "invitation has expired")
	errUsed            = common.StateErr(http.StatusGone, config.TokenStateUsed, "invitation has already been used")
	errAlreadyAccepted = common.StateErr(http.StatusGone, config.TokenStateAlreadyAccepted, "invitation has already been accepted")
	errDeclined        = common.StateErr(http.StatusGone, config.TokenStateDeclined, "invitation was declined")
	errAlreadyMember   = common.StateErr(http.StatusBadRequest, config.TokenStateAlreadyMember, "already a member of this group")
)

// checkSingleUse applies the shared validation order: expiry first, then the
// consumption flag.
func checkSingleUse(expiresAt time.Time, used bool, now time.Time) error {
	if !now.Before(expiresAt) {
		return errExpired
	}
	if used {
		return errUsed
	}
	return nil
}

func checkGroupInvitation(inv *models.GroupInvitation, now time.Time) error {
	if !now.Before(inv.ExpiresAt) {
		return errExpired
	}
	switch config.GroupInvitationStatus(inv.Status) {
	case config.GroupInvitationAccepted:
		return errAlreadyAccepted
	case config.GroupInvitationDeclined:
		return errDeclined
	}
	return nil
}

// mapRepoErr converts repository and context errors into API errors.
func mapRepoErr(err error, notFound error, action string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return common.Errf(http.StatusInternalServerError, "failed to %s", action)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InviteService) token() (string, error) {
	tok, err := s.newToken()
	if err != nil {
		s.log.Error("invite.token.generate_error", "error", err)
		return "", common.Errf(http.StatusInternalServerError, "failed to generate token")
	}
	return tok, nil
}

// IssueWaitlistInvitation creates a single-use signup invitation.
func (s *InviteService) IssueWaitlistInvitation(ctx context.Context, email string) (*dto.IssuedTokenDTO, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}

	inv := models.WaitlistInvitation{
		Email:     normalizeEmail(email),
		Token:     tok,
		ExpiresAt: s.now().Add(s.waitlistTTL),
	}
	if err := s.repo.CreateWaitlistInvitation(ctx, &inv); err != nil {
		return nil, mapRepoErr(err, nil, "create invitation")
	}

	s.log.Info("invite.waitlist.issued", "email", inv.Email, "expires_at", inv.ExpiresAt)
	return &dto.IssuedTokenDTO{Email: inv.Email, Token: inv.Token, ExpiresAt: inv.ExpiresAt}, nil
}

// VerifyWaitlistInvitation reports whether token can still be used. It never
// changes state.
func (s *InviteService) VerifyWaitlistInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	inv, err := s.repo.GetWaitlistInvitation(ctx, token)
	if err != nil {
		return nil, mapRepoErr(err, errInvalid, "get invitation")
	}
	if err := checkSingleUse(inv.ExpiresAt, inv.Used, s.now()); err != nil {
		return nil, err
	}
	return &dto.TokenStatusDTO{Status: config.TokenStateValid, Email: inv.Email, ExpiresAt: inv.ExpiresAt}, nil
}

// AcceptWaitlistInvitation consumes the token and creates the account.
func (s *InviteService) AcceptWaitlistInvitation(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error) {
	status, err := s.VerifyWaitlistInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to create account")
	}

	user := models.User{Email: status.Email, Name: strings.TrimSpace(req.Name), PasswordHash: hash}
	if err := s.repo.ConsumeWaitlistInvitation(ctx, token, s.now(), &user); err != nil {
		switch {
		case errors.Is(err, ErrTokenUnavailable):
			return nil, s.reclassifyWaitlist(ctx, token)
		case errors.Is(err, ErrEmailRegistered):
			return nil, common.Errf(http.StatusConflict, "an account already exists for this email")
		}
		return nil, mapRepoErr(err, errInvalid, "accept invitation")
	}

	s.log.Info("invite.waitlist.accepted", "email", user.Email, "user_id", user.ID)
	return &dto.AcceptResultDTO{Status: config.TokenStateUsed, UserID: user.ID}, nil
}

// reclassifyWaitlist explains why a conditional consume matched nothing.
func (s *InviteService) reclassifyWaitlist(ctx context.Context, token string) error {
	if _, err := s.VerifyWaitlistInvitation(ctx, token); err != nil {
		return err
	}
	return errUsed
}

// CreateGroup creates a cookbook group owned by ownerEmail.
func (s *InviteService) CreateGroup(ctx context.Context, name, ownerEmail string) (*dto.GroupResponseDTO, error) {
	owner := normalizeEmail(ownerEmail)
	group := models.Group{Name: strings.TrimSpace(name), OwnerEmail: owner}
	member := models.GroupMember{Email: owner, Role: "owner"}

	if err := s.repo.CreateGroup(ctx, &group, &member); err != nil {
		return nil, mapRepoErr(err, nil, "create group")
	}

	return &dto.GroupResponseDTO{
		ID:         group.ID,
		Name:       group.Name,
		OwnerEmail: group.OwnerEmail,
		CreatedAt:  group.CreatedAt,
	}, nil
}

// IssueGroupInvitation invites email to the group. invitedBy must be a member
// unless asAdmin is set.
func (s *InviteService) IssueGroupInvitation(ctx context.Context, groupID uint, email, invitedBy string, asAdmin bool) (*dto.IssuedTokenDTO, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, mapRepoErr(err, common.Errf(http.StatusNotFound, "group not found"), "get group")
	}

	if !asAdmin {
		ok, err := s.repo.IsGroupMember(ctx, groupID, normalizeEmail(invitedBy))
		if err != nil {
			return nil, mapRepoErr(err, nil, "check membership")
		}
		if !ok {
			return nil, common.Errf(http.StatusForbidden, "only group members can invite")
		}
	}

	invitee := normalizeEmail(email)
	member, err := s.repo.IsGroupMember(ctx, groupID, invitee)
	if err != nil {
		return nil, mapRepoErr(err, nil, "check membership")
	}
	if member {
		return nil, errAlreadyMember
	}

	tok, err := s.token()
	if err != nil {
		return nil, err
	}

	inv := models.GroupInvitation{
		GroupID:   groupID,
		Email:     invitee,
		Token:     tok,
		Status:    string(config.GroupInvitationPending),
		InvitedBy: normalizeEmail(invitedBy),
		ExpiresAt: s.now().Add(s.groupTTL),
	}
	if err := s.repo.CreateGroupInvitation(ctx, &inv); err != nil {
		return nil, mapRepoErr(err, nil, "create invitation")
	}

	s.log.Info("invite.group.issued", "group_id", groupID, "email", invitee)
	return &dto.IssuedTokenDTO{Email: inv.Email, Token: inv.Token, ExpiresAt: inv.ExpiresAt}, nil
}

func (s *InviteService) VerifyGroupInvitation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	inv, err := s.repo.GetGroupInvitation(ctx, token)
	if err != nil {
		return nil, mapRepoErr(err, errInvalid, "get invitation")
	}
	if err := checkGroupInvitation(inv, s.now()); err != nil {
		return nil, err
	}

	member, err := s.repo.IsGroupMember(ctx, inv.GroupID, inv.Email)
	if err != nil {
		return nil, mapRepoErr(err, nil, "check membership")
	}
	if member {
		return nil, errAlreadyMember
	}

	return &dto.TokenStatusDTO{
		Status:    config.TokenStateValid,
		Email:     inv.Email,
		ExpiresAt: inv.ExpiresAt,
		GroupID:   inv.GroupID,
		GroupName: inv.Group.Name,
		InvitedBy: inv.InvitedBy,
	}, nil
}

// AcceptGroupInvitation consumes the token and adds the invitee to the group.
func (s *InviteService) AcceptGroupInvitation(ctx context.Context, token string, req *dto.GroupAcceptDTO) (*dto.AcceptResultDTO, error) {
	status, err := s.VerifyGroupInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	member := models.GroupMember{
		GroupID: status.GroupID,
		Email:   status.Email,
		Name:    strings.TrimSpace(req.Name),
		Role:    "member",
	}
	if err := s.repo.AcceptGroupInvitation(ctx, token, s.now(), &member); err != nil {
		switch {
		case errors.Is(err, ErrTokenUnavailable):
			return nil, s.reclassifyGroup(ctx, token)
		case errors.Is(err, ErrAlreadyMember):
			return nil, errAlreadyMember
		}
		return nil, mapRepoErr(err, errInvalid, "accept invitation")
	}

	s.log.Info("invite.group.accepted", "group_id", member.GroupID, "email", member.Email)
	return &dto.AcceptResultDTO{
		Status:   string(config.GroupInvitationAccepted),
		GroupID:  member.GroupID,
		MemberID: member.ID,
	}, nil
}

// DeclineGroupInvitation moves a pending invitation to declined.
func (s *InviteService) DeclineGroupInvitation(ctx context.Context, token string) (*dto.AcceptResultDTO, error) {
	inv, err := s.repo.GetGroupInvitation(ctx, token)
	if err != nil {
		return nil, mapRepoErr(err, errInvalid, "get invitation")
	}
	if err := checkGroupInvitation(inv, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.DeclineGroupInvitation(ctx, token, s.now()); err != nil {
		if errors.Is(err, ErrTokenUnavailable) {
			return nil, s.reclassifyGroup(ctx, token)
		}
		return nil, mapRepoErr(err, errInvalid, "decline invitation")
	}

	s.log.Info("invite.group.declined", "group_id", inv.GroupID, "email", inv.Email)
	return &dto.AcceptResultDTO{Status: string(config.GroupInvitationDeclined), GroupID: inv.GroupID}, nil
}

func (s *InviteService) reclassifyGroup(ctx context.Context, token string) error {
	inv, err := s.repo.GetGroupInvitation(ctx, token)
	if err != nil {
		return mapRepoErr(err, errInvalid, "get invitation")
	}
	if err := checkGroupInvitation(inv, s.now()); err != nil {
		return err
	}
	return errAlreadyAccepted
}

// IssuePurchaseActivation creates an activation token valid for 30 days.
func (s *InviteService) IssuePurchaseActivation(ctx context.Context, email string, metadata []byte) (*dto.IssuedTokenDTO, error) {
	if len(metadata) > 0 && !json.Valid(metadata) {
		return nil, common.Errf(http.StatusBadRequest, "metadata must be valid JSON")
	}

	tok, err := s.token()
	if err != nil {
		return nil, err
	}

	act := models.PurchaseActivation{
		Email:     normalizeEmail(email),
		Token:     tok,
		ExpiresAt: s.now().Add(config.PurchaseActivationTTL),
	}
	if len(metadata) > 0 {
		act.Metadata = datatypes.JSON(metadata)
	}
	if err := s.repo.CreatePurchaseActivation(ctx, &act); err != nil {
		return nil, mapRepoErr(err, nil, "create activation")
	}

	s.log.Info("invite.activation.issued", "email", act.Email, "expires_at", act.ExpiresAt)
	return &dto.IssuedTokenDTO{Email: act.Email, Token: act.Token, ExpiresAt: act.ExpiresAt}, nil
}

func (s *InviteService) VerifyPurchaseActivation(ctx context.Context, token string) (*dto.TokenStatusDTO, error) {
	act, err := s.repo.GetPurchaseActivation(ctx, token)
	if err != nil {
		return nil, mapRepoErr(err, errInvalid, "get activation")
	}
	if err := checkSingleUse(act.ExpiresAt, act.Used, s.now()); err != nil {
		return nil, err
	}
	return &dto.TokenStatusDTO{
		Status:    config.TokenStateValid,
		Email:     act.Email,
		ExpiresAt: act.ExpiresAt,
		Metadata:  json.RawMessage(act.Metadata),
	}, nil
}

// ActivatePurchase consumes the activation. An existing account for the
// email is reused rather than duplicated.
func (s *InviteService) ActivatePurchase(ctx context.Context, token string, req *dto.AccountAcceptDTO) (*dto.AcceptResultDTO, error) {
	status, err := s.VerifyPurchaseActivation(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to create account")
	}

	user := models.User{Email: status.Email, Name: strings.TrimSpace(req.Name), PasswordHash: hash}
	if err := s.repo.ConsumePurchaseActivation(ctx, token, s.now(), &user); err != nil {
		if errors.Is(err, ErrTokenUnavailable) {
			return nil, s.reclassifyActivation(ctx, token)
		}
		return nil, mapRepoErr(err, errInvalid, "activate purchase")
	}

	s.log.Info("invite.activation.used", "email", user.Email, "user_id", user.ID)
	return &dto.AcceptResultDTO{Status: config.TokenStateUsed, UserID: user.ID}, nil
}

func (s *InviteService) reclassifyActivation(ctx context.Context, token string) error {
	if _, err := s.VerifyPurchaseActivation(ctx, token); err != nil {
		return err
	}
	return errUsed
}

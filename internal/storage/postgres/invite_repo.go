package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/invite"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"gorm.io/gorm"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

var _ invite.InviteRepoInterface = (*InviteRepository)(nil)

func (r *InviteRepository) CreateWaitlistInvitation(ctx context.Context, inv *models.WaitlistInvitation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create waitlist invitation: %w", err)
	}
	return nil
}

func (r *InviteRepository) GetWaitlistInvitation(ctx context.Context, token string) (*models.WaitlistInvitation, error) {
	var inv models.WaitlistInvitation
	if err := r.db.WithContext(ctx).First(&inv, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("get waitlist invitation: %w", err)
	}
	return &inv, nil
}

// ConsumeWaitlistInvitation marks the token used and creates user in one
// transaction. The update only matches an unused, unexpired token, so of two
// concurrent accepts exactly one succeeds.
func (r *InviteRepository) ConsumeWaitlistInvitation(ctx context.Context, token string, now time.Time, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeSingleUse(tx, &models.WaitlistInvitation{}, token, now); err != nil {
			return err
		}

		exists, err := userExists(tx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return invite.ErrEmailRegistered
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

func (r *InviteRepository) CreateGroup(ctx context.Context, group *models.Group, owner *models.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		owner.GroupID = group.ID
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("add group owner: %w", err)
		}
		return nil
	})
}

func (r *InviteRepository) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &group, nil
}

func (r *InviteRepository) IsGroupMember(ctx context.Context, groupID uint, email string) (bool, error) {
	return isMember(r.db.WithContext(ctx), groupID, email)
}

func (r *InviteRepository) CreateGroupInvitation(ctx context.Context, inv *models.GroupInvitation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create group invitation: %w", err)
	}
	return nil
}

// GetGroupInvitation loads the invitation together with its group.
func (r *InviteRepository) GetGroupInvitation(ctx context.Context, token string) (*models.GroupInvitation, error) {
	var inv models.GroupInvitation
	if err := r.db.WithContext(ctx).Preload("Group").First(&inv, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("get group invitation: %w", err)
	}
	return &inv, nil
}

// AcceptGroupInvitation moves a pending invitation to accepted and inserts
// member in the same transaction.
func (r *InviteRepository) AcceptGroupInvitation(ctx context.Context, token string, now time.Time, member *models.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := respondGroupInvitation(tx, token, now, config.GroupInvitationAccepted); err != nil {
			return err
		}

		ok, err := isMember(tx, member.GroupID, member.Email)
		if err != nil {
			return err
		}
		if ok {
			return invite.ErrAlreadyMember
		}

		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("add group member: %w", err)
		}
		return nil
	})
}

func (r *InviteRepository) DeclineGroupInvitation(ctx context.Context, token string, now time.Time) error {
	return respondGroupInvitation(r.db.WithContext(ctx), token, now, config.GroupInvitationDeclined)
}

func (r *InviteRepository) CreatePurchaseActivation(ctx context.Context, act *models.PurchaseActivation) error {
	if err := r.db.WithContext(ctx).Create(act).Error; err != nil {
		return fmt.Errorf("create purchase activation: %w", err)
	}
	return nil
}

func (r *InviteRepository) GetPurchaseActivation(ctx context.Context, token string) (*models.PurchaseActivation, error) {
	var act models.PurchaseActivation
	if err := r.db.WithContext(ctx).First(&act, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("get purchase activation: %w", err)
	}
	return &act, nil
}

// ConsumePurchaseActivation marks the activation used. An existing account
// with the same email is reused; otherwise user is created. On return
// user.ID is set either way.
func (r *InviteRepository) ConsumePurchaseActivation(ctx context.Context, token string, now time.Time, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeSingleUse(tx, &models.PurchaseActivation{}, token, now); err != nil {
			return err
		}

		var existing models.User
		err := tx.First(&existing, "email = ?", user.Email).Error
		switch {
		case err == nil:
			*user = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("lookup user: %w", err)
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// consumeSingleUse flips used on a token row that is still unused and
// unexpired at now.
func consumeSingleUse(tx *gorm.DB, model any, token string, now time.Time) error {
	res := tx.Model(model).
		Where("token = ? AND used = ? AND expires_at > ?", token, false, now).
		Updates(map[string]any{"used": true, "used_at": now})
	if res.Error != nil {
		return fmt.Errorf("consume token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return invite.ErrTokenUnavailable
	}
	return nil
}

func respondGroupInvitation(tx *gorm.DB, token string, now time.Time, status config.GroupInvitationStatus) error {
	res := tx.Model(&models.GroupInvitation{}).
		Where("token = ? AND status = ? AND expires_at > ?", token, string(config.GroupInvitationPending), now).
		Updates(map[string]any{"status": string(status), "responded_at": now})
	if res.Error != nil {
		return fmt.Errorf("respond to group invitation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return invite.ErrTokenUnavailable
	}
	return nil
}

func userExists(tx *gorm.DB, email string) (bool, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func isMember(tx *gorm.DB, groupID uint, email string) (bool, error) {
	var n int64
	if err := tx.Model(&models.GroupMember{}).
		Where("group_id = ? AND email = ?", groupID, email).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check group membership: %w", err)
	}
	return n > 0, nil
}

package invite

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/middleware"
)

type InviteHandler struct {
	service InviteServiceInterface
	admins  config.AdminSet
}

func NewInviteHandler(s InviteServiceInterface, admins config.AdminSet) *InviteHandler {
	return &InviteHandler{service: s, admins: admins}
}

var _ InviteHandlerInterface = (*InviteHandler)(nil)

// IssueWaitlist creates a signup invitation. Admin only.
func (h *InviteHandler) IssueWaitlist(c *gin.Context) {
	var req dto.IssueInvitationDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.IssueWaitlistInvitation(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *InviteHandler) VerifyWaitlist(c *gin.Context) {
	resp, err := h.service.VerifyWaitlistInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InviteHandler) AcceptWaitlist(c *gin.Context) {
	var req dto.AccountAcceptDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.AcceptWaitlistInvitation(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateGroup creates a group owned by the signed-in caller.
func (h *InviteHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.CreateGroup(c.Request.Context(), req.Name, middleware.UserEmail(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// IssueGroup invites an email into a group. The caller must be a member of
// the group or an admin.
func (h *InviteHandler) IssueGroup(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	var req dto.IssueInvitationDTO
	if !middleware.Bind(c, &req) {
		return
	}

	caller := middleware.UserEmail(c)
	resp, err := h.service.IssueGroupInvitation(c.Request.Context(), uint(id), req.Email, caller, h.admins.IsAdmin(caller))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InviteHandler) VerifyGroup(c *gin.Context) {
	resp, err := h.service.VerifyGroupInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InviteHandler) AcceptGroup(c *gin.Context) {
	var req dto.GroupAcceptDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.AcceptGroupInvitation(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InviteHandler) DeclineGroup(c *gin.Context) {
	resp, err := h.service.DeclineGroupInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IssueActivation creates a purchase activation token. Admin only.
func (h *InviteHandler) IssueActivation(c *gin.Context) {
	var req dto.IssueActivationDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.IssuePurchaseActivation(c.Request.Context(), req.Email, req.Metadata)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InviteHandler) VerifyActivation(c *gin.Context) {
	resp, err := h.service.VerifyPurchaseActivation(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InviteHandler) Activate(c *gin.Context) {
	var req dto.AccountAcceptDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.ActivatePurchase(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes mounts the token endpoints. Public routes need no identity;
// issuance routes sit behind the caller and admin guards.
func (h *InviteHandler) RegisterRoutes(public, users, admin gin.IRoutes) {
	public.GET("/invitations/:token", h.VerifyWaitlist)
	public.POST("/invitations/:token/accept", h.AcceptWaitlist)
	public.GET("/group-invitations/:token", h.VerifyGroup)
	public.POST("/group-invitations/:token/accept", h.AcceptGroup)
	public.POST("/group-invitations/:token/decline", h.DeclineGroup)
	public.GET("/activations/:token", h.VerifyActivation)
	public.POST("/activations/:token/activate", h.Activate)

	users.POST("/groups", h.CreateGroup)
	users.POST("/groups/:id/invitations", h.IssueGroup)

	admin.POST("/invitations", h.IssueWaitlist)
	admin.POST("/activations", h.IssueActivation)
}

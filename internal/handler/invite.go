package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/utils"
)

// InviteHandler drives the invite lifecycle: create, list, accept, revoke,
// resend.  The raw token is returned only at creation and resend; the
// database only ever holds its hash.
type InviteHandler struct {
	Cfg     config.Config
	Invites *repository.InviteRepo
	Members *repository.MemberRepo
	Users   *repository.UserRepo
}

func NewInviteHandler(cfg config.Config, i *repository.InviteRepo, m *repository.MemberRepo, u *repository.UserRepo) *InviteHandler {
	return &InviteHandler{Cfg: cfg, Invites: i, Members: m, Users: u}
}

type createInviteReq struct {
	Email     string `json:"email"`
	RanchRole string `json:"ranchRole"`
}

type acceptInviteReq struct {
	Token string `json:"token"`
}

type invitePart struct {
	ID        uint64     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	State     string     `json:"state"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func inviteJSON(i model.Invite, now time.Time) invitePart {
	return invitePart{
		ID:        i.ID,
		Email:     i.Email,
		Role:      string(i.Role),
		State:     string(i.State(now)),
		ExpiresAt: i.ExpiresAt,
		UsedAt:    i.UsedAt,
		CreatedAt: i.CreatedAt,
	}
}

// Create issues an invite for an email address and a ranch role.  Only an
// owner may invite another owner.  If the invitee already has an account,
// their membership row is parked at pending so the roster shows them before
// acceptance.  An unused invite for the same pair blocks a second one.
func (h *InviteHandler) Create(c echo.Context) error {
	var req createInviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := model.RanchRole(req.RanchRole)
	if email == "" || !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and valid ranchRole required"})
	}

	requester := middleware.CurrentMembership(c)
	if role == model.RanchRoleOwner && requester.Role != model.RanchRoleOwner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only owner can invite another owner"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	ranch := middleware.CurrentRanch(c)

	// Reject inviting someone who is already an active member.
	var invitee *model.User
	if u, err := h.Users.GetByEmail(ctx, email); err == nil {
		invitee = &u
		if m, err := h.Members.Get(ctx, ranch.ID, u.ID); err == nil && m.Status == model.MemberStatusActive {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user is already an active member"})
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Fail fast before generating a token; the unique key on open invites
	// still backstops a concurrent create.
	if open, err := h.Invites.HasOpen(ctx, ranch.ID, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if open {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invite already exists for this email"})
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	invite := model.Invite{
		RanchID:   ranch.ID,
		Email:     email,
		Role:      role,
		TokenHash: utils.HashTokenRaw(token),
		ExpiresAt: time.Now().UTC().Add(time.Duration(h.Cfg.InviteTTLDays) * 24 * time.Hour),
		CreatedBy: middleware.CurrentUser(c).ID,
	}
	if err := h.Invites.Create(ctx, &invite); err != nil {
		if errors.Is(err, repository.ErrInviteExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invite already exists for this email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invite failed"})
	}

	if invitee != nil {
		if err := h.Members.Upsert(ctx, ranch.ID, invitee.ID, role, model.MemberStatusPending); err != nil {
			logs.Logger.WithError(err).Warn("pending membership upsert failed")
		}
	}

	logs.Logger.WithFields(map[string]interface{}{"ranch_id": ranch.ID, "invite_id": invite.ID}).Info("invite created")
	return c.JSON(http.StatusCreated, echo.Map{
		"invite": inviteJSON(invite, time.Now()),
		"token":  token,
	})
}

// List returns all invites of the ranch, newest first.
func (h *InviteHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Invites.ListByRanch(ctx, middleware.CurrentRanch(c).ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	out := make([]invitePart, 0, len(items))
	for _, i := range items {
		out = append(out, inviteJSON(i, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"invites": out})
}

// Accept redeems an invite token for the authenticated caller.  The invite
// must be pending, unexpired and addressed to the caller's email.  The
// membership is upserted to active with the invite's role, and used_at is
// set conditionally so a concurrent double accept loses cleanly.
func (h *InviteHandler) Accept(c echo.Context) error {
	var req acceptInviteReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	invite, err := h.Invites.GetByTokenHash(ctx, utils.HashTokenRaw(strings.TrimSpace(req.Token)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	caller := middleware.CurrentUser(c)
	if err := invite.AcceptableBy(caller.Email, time.Now()); err != nil {
		switch {
		case errors.Is(err, model.ErrInviteUsed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite already used"})
		case errors.Is(err, model.ErrInviteExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite expired"})
		default:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invite not meant for this account"})
		}
	}

	// Spend the invite before touching the membership: if two accepts race,
	// only the winner proceeds past this point.
	if err := h.Invites.MarkUsed(ctx, invite.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}

	if err := h.Members.Upsert(ctx, invite.RanchID, caller.ID, invite.Role, model.MemberStatusActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activate membership failed"})
	}

	logs.Logger.WithFields(map[string]interface{}{"invite_id": invite.ID, "user_id": caller.ID}).Info("invite accepted")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "invite accepted",
		"ranchId": invite.RanchID,
		"role":    invite.Role,
	})
}

// Revoke marks a pending invite used without touching any membership row.
// At the storage layer revocation and acceptance are indistinguishable.
func (h *InviteHandler) Revoke(c echo.Context) error {
	inviteID := paramUint(c, "inviteId")
	if inviteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invite id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Invites.GetByID(ctx, inviteID, middleware.CurrentRanch(c).ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Invites.MarkUsed(ctx, inviteID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite already used or revoked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "invite revoked"})
}

// Resend rotates a pending invite's token and extends its expiry, keeping it
// pending under the fresh credential.  This is the only transition that does
// not set used_at.
func (h *InviteHandler) Resend(c echo.Context) error {
	inviteID := paramUint(c, "inviteId")
	if inviteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invite id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	invite, err := h.Invites.GetByID(ctx, inviteID, middleware.CurrentRanch(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.InviteTTLDays) * 24 * time.Hour)

	if err := h.Invites.RotateToken(ctx, invite.ID, utils.HashTokenRaw(token), expiresAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite already used or revoked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resend failed"})
	}

	invite.ExpiresAt = expiresAt
	return c.JSON(http.StatusOK, echo.Map{
		"message": "invite resent",
		"invite":  inviteJSON(invite, time.Now()),
		"token":   token,
	})
}

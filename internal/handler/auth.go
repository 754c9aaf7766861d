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

// refreshCookie is the HTTP-only cookie carrying the refresh token, scoped
// to the auth routes so it never travels with ordinary API calls.
const refreshCookie = "rt"

// AuthHandler bundles dependencies for registration, login and the refresh
// token lifecycle.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type registerReq struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authUserPart struct {
	ID           uint64  `json:"id"`
	Email        string  `json:"email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	PlatformRole string  `json:"platformRole"`
}

type authResp struct {
	User    authUserPart `json:"user"`
	Access  tokenPart    `json:"access"`
	Refresh tokenPart    `json:"refresh"`
}

func authUser(u model.User) authUserPart {
	return authUserPart{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PlatformRole: string(u.PlatformRole),
	}
}

// issuePair signs an access/refresh pair for the user and stores the refresh
// token's hash.
func (h *AuthHandler) issuePair(c echo.Context, u model.User) (tokenPart, tokenPart, error) {
	claims := utils.TokenClaims{UserID: u.ID, PlatformRole: string(u.PlatformRole)}

	access, err := utils.NewAccessToken(h.Cfg.JWTAccessSecret, claims, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTRefreshSecret, claims, h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.Store(ctx, u.ID, utils.HashTokenRaw(refresh.Token), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}

	h.setRefreshCookie(c, refresh.Token, refresh.Exp)
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Token, Expires: refresh.Exp}, nil
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/v1/auth",
		Domain:   h.Cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/v1/auth",
		Domain:   h.Cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshTokenFrom prefers the cookie and falls back to the request body for
// clients that cannot carry cookies.
func refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(refreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	var req refreshReq
	_ = c.Bind(&req)
	return strings.TrimSpace(req.RefreshToken)
}

// Register creates a user account and logs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password (min 8 chars) required"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	uid, err := h.Users.Create(ctx, req.Email, hash, req.FirstName, req.LastName, model.PlatformRoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u := model.User{
		ID:           uid,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PlatformRole: model.PlatformRoleUser,
		IsActive:     true,
	}

	access, refresh, err := h.issuePair(c, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	logs.Logger.WithField("user_id", u.ID).Info("user registered")
	return c.JSON(http.StatusCreated, authResp{User: authUser(u), Access: access, Refresh: refresh})
}

// Login verifies credentials and issues a fresh token pair.  Unknown email
// and wrong password produce the same response to avoid account enumeration.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || u.DeletedAt != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, refresh, err := h.issuePair(c, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: authUser(u), Access: access, Refresh: refresh})
}

// Refresh exchanges a valid refresh token for a new pair.  The presented
// token is spent atomically; replaying it (or losing the rotation race)
// reads as a plain invalid token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh token required"})
	}

	claims, err := utils.ParseToken(h.Cfg.JWTRefreshSecret, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	oldHash := utils.HashTokenRaw(raw)

	ctx, cancel := reqCtx(c)
	defer cancel()

	stored, err := h.Tokens.GetByHash(ctx, oldHash)
	if err == nil && time.Now().After(stored.ExpiresAt) {
		err = repository.ErrTokenExpired
	}
	if err != nil || stored.UserID != claims.UserID {
		if errors.Is(err, repository.ErrTokenExpired) {
			logs.Logger.WithField("user_id", stored.UserID).Debug("refresh token expired")
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil || !u.IsActive || u.DeletedAt != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	newClaims := utils.TokenClaims{UserID: u.ID, PlatformRole: string(u.PlatformRole)}
	access, err := utils.NewAccessToken(h.Cfg.JWTAccessSecret, newClaims, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTRefreshSecret, newClaims, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	if err := h.Tokens.Rotate(ctx, oldHash, utils.HashTokenRaw(refresh.Token), u.ID, refresh.Exp); err != nil {
		if errors.Is(err, repository.ErrTokenRevoked) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rotate refresh failed"})
	}

	h.setRefreshCookie(c, refresh.Token, refresh.Exp)
	return c.JSON(http.StatusOK, authResp{
		User:    authUser(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Token, Expires: refresh.Exp},
	})
}

// Logout revokes the presented refresh token and clears the cookie.  It
// never fails on an absent or already-revoked token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if raw := refreshTokenFrom(c); raw != "" {
		ctx, cancel := reqCtx(c)
		defer cancel()
		if err := h.Tokens.Revoke(ctx, utils.HashTokenRaw(raw)); err != nil {
			logs.Logger.WithError(err).Warn("logout revoke failed")
		}
	}
	h.clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": authUser(middleware.CurrentUser(c))})
}

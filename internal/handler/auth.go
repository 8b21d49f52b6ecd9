package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/middleware"
	"github.com/MStartsev/postcard/internal/service"
	"github.com/MStartsev/postcard/internal/store"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/response"
)

// User-facing auth error messages, matching the client's localization.
const (
	msgDuplicateAccount   = "Користувач з такою електронною поштою вже існує"
	msgInvalidCredentials = "Невірна електронна пошта або пароль"
	msgRegisterFailed     = "Помилка реєстрації"
	msgLoginFailed        = "Помилка входу"
)

// Register handles registration. The form is multipart because an avatar
// file may ride along.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	var avatar *domain.Upload
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			l.Warn().Err(err).Msg("failed to open avatar part")
			response.BadRequest(c, "unreadable avatar file")
			return
		}
		defer f.Close()
		avatar = &domain.Upload{
			Reader:      f,
			Size:        file.Size,
			ContentType: file.Header.Get("Content-Type"),
		}
	}

	session, err := h.authService.Register(ctx, &req, avatar)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Message)
			return
		}
		if errors.Is(err, service.ErrDuplicateAccount) {
			response.Conflict(c, msgDuplicateAccount)
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, msgRegisterFailed)
		return
	}

	h.authStore.Dispatch(store.SetUser{User: session.Profile})

	response.Created(c, session)
}

// Login handles login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.authService.Login(ctx, &req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Message)
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, msgInvalidCredentials)
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, msgLoginFailed)
		return
	}

	h.authStore.Dispatch(store.SetUser{User: session.Profile})

	response.Success(c, session)
}

// Logout revokes the session and clears the auth snapshot. Always
// succeeds from the client's point of view.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	h.authService.Logout(ctx, middleware.GetRawToken(c), userID)
	h.authStore.Dispatch(store.ClearUser{})

	response.Success(c, gin.H{"message": "logged out"})
}

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	profile, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("get profile failed")
		response.InternalError(c, "failed to get profile")
		return
	}

	response.Success(c, profile)
}

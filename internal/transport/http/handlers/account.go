package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/domain"
	"github.com/mbressan/identity-service/internal/logger"
	"github.com/mbressan/identity-service/internal/transport/http/dto"
	"github.com/mbressan/identity-service/internal/transport/http/middleware"
	"github.com/mbressan/identity-service/internal/transport/http/response"
)

// Account handles the account lifecycle endpoints.
type Account struct {
	svc *account.Service
	log zerolog.Logger
}

func NewAccount(svc *account.Service, log zerolog.Logger) *Account {
	return &Account{svc: svc, log: log}
}

// Register creates an unverified user and kicks off mail confirmation.
func (h *Account) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Mail, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("registration accepted, confirmation mail queued")

	response.OK(w, dto.MessageData{Message: "confirmation mail sent"})
}

// ConfirmRegistration flips the user to verified via the mailed token.
func (h *Account) ConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.svc.ConfirmRegistration(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MessageData{Message: "registration confirmed"})
}

// Login exchanges credentials for a session token pair.
func (h *Account) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, tokens, err := h.svc.Login(r.Context(), req.Mail, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("login succeeded")

	response.OK(w, dto.NewTokensData(tokens))
}

// Forgot starts the password reset flow for a verified account.
func (h *Account) Forgot(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Mail); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MessageData{Message: "reset mail sent"})
}

// ValidateReset checks a reset token before the caller renders the form.
func (h *Account) ValidateReset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.svc.ValidateReset(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ResetTokenData{Token: token})
}

// ResetPassword replaces the credential behind a valid reset token.
func (h *Account) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req dto.ResetPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		response.WriteError(w, r, domain.ErrPasswordMismatch())
		return
	}

	if err := h.svc.ResetPassword(r.Context(), token, req.Password); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MessageData{Message: "password updated"})
}

// Refresh mints a new access token from a refresh token.
func (h *Account) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	access, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		middleware.TokenRefreshTotal.WithLabelValues("failure").Inc()
		var derr *domain.Error
		if !errors.As(err, &derr) {
			h.log.Error().Err(err).Msg("token refresh failed")
		}
		response.WriteError(w, r, err)
		return
	}
	middleware.TokenRefreshTotal.WithLabelValues("success").Inc()

	response.OK(w, dto.AccessTokenData{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.svc.AccessTokenTTL().Seconds()),
	})
}

// Me returns the authenticated user attached by the session guard.
func (h *Account) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		// Guard always runs first on this route; missing user is a wiring bug.
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.NewUserView(u))
}

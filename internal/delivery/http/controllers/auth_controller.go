package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"techcalendar/internal/delivery/http/helpers"
	"techcalendar/internal/domain"
)

// TokenRequest is the request body for POST /auth/token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	var errs []string
	if t.Username == "" {
		errs = append(errs, "username is required")
	}
	if t.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// TokenResponse is the data payload for a successful POST /auth/token.
type TokenResponse struct {
	Token string `json:"token"`
}

// TokenSuccessResponse is the success envelope for POST /auth/token (200).
type TokenSuccessResponse struct {
	Data  TokenResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueToken godoc
// @Summary Exchange staff credentials for a bearer token
// @Description Compares the supplied credentials against the configured staff account and returns a signed JWT on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Staff credentials"
// @Success 200 {object} controllers.TokenSuccessResponse "data contains the token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token})
}

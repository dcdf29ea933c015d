package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techcalendar/internal/delivery/http/helpers"
	"techcalendar/internal/domain"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token        string
	err          error
	lastUsername string
	lastPassword string
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (string, error) {
	f.lastUsername = username
	f.lastPassword = password
	return f.token, f.err
}

func TestIssueToken(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		svc := &fakeAuthService{token: "signed.jwt.token"}
		ctrl := NewAuthController(testLogger, svc)

		body := strings.NewReader(`{"username":"staff","password":"secret"}`)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/token", body)
		rr := httptest.NewRecorder()
		ctrl.IssueToken(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "staff", svc.lastUsername)
		assert.Equal(t, "secret", svc.lastPassword)
		assert.Contains(t, rr.Body.String(), "signed.jwt.token")
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		svc := &fakeAuthService{}
		ctrl := NewAuthController(testLogger, svc)

		body := strings.NewReader(`{"username":"staff"}`)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/token", body)
		rr := httptest.NewRecorder()
		ctrl.IssueToken(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, svc.lastUsername)
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		svc := &fakeAuthService{err: domain.ErrInvalidCredentials}
		ctrl := NewAuthController(testLogger, svc)

		body := strings.NewReader(`{"username":"staff","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/token", body)
		rr := httptest.NewRecorder()
		ctrl.IssueToken(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
	})

	t.Run("issuer failure returns 500", func(t *testing.T) {
		svc := &fakeAuthService{err: errors.New("signing key unavailable")}
		ctrl := NewAuthController(testLogger, svc)

		body := strings.NewReader(`{"username":"staff","password":"secret"}`)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/token", body)
		rr := httptest.NewRecorder()
		ctrl.IssueToken(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

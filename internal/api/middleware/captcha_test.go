package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IamAKX/propso-v2-sub000/internal/captcha"
)

// MockVerifier implements captcha.IVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	args := m.Called(ctx, token, remoteIP)
	return args.Bool(0), args.Error(1)
}

func setupCaptchaTestEngine(verifier captcha.IVerifier, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authed {
		r.Use(func(c *gin.Context) {
			c.Set(ContextKeyUserID, "0123456789")
			c.Next()
		})
	}
	r.Use(RequireCaptcha(verifier))
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireCaptcha_NoToken(t *testing.T) {
	mockVerifier := new(MockVerifier)
	router := setupCaptchaTestEngine(mockVerifier, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockVerifier.AssertNotCalled(t, "Verify")
}

func TestRequireCaptcha_ValidToken(t *testing.T) {
	mockVerifier := new(MockVerifier)
	router := setupCaptchaTestEngine(mockVerifier, false)

	mockVerifier.On("Verify", mock.Anything, "good-token", mock.Anything).Return(true, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	req.Header.Set("X-Captcha-Token", "good-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockVerifier.AssertExpectations(t)
}

func TestRequireCaptcha_FailedChallenge(t *testing.T) {
	mockVerifier := new(MockVerifier)
	router := setupCaptchaTestEngine(mockVerifier, false)

	mockVerifier.On("Verify", mock.Anything, "bad-token", mock.Anything).Return(false, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	req.Header.Set("X-Captcha-Token", "bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockVerifier.AssertExpectations(t)
}

func TestRequireCaptcha_AuthenticatedSkips(t *testing.T) {
	mockVerifier := new(MockVerifier)
	router := setupCaptchaTestEngine(mockVerifier, true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockVerifier.AssertNotCalled(t, "Verify")
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.POST("/events", AuthMiddleware(testSecret), RequireOrganizer(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.POST("/decide", AuthMiddleware(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareSetsIdentityFromToken(t *testing.T) {
	r := authRouter()

	rec := doRequest(r, http.MethodGet, "/me", signedToken(t, "user-1", "organizer"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, rec.Body.String(), `"role":"organizer"`)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := authRouter()

	rec := doRequest(r, http.MethodGet, "/me", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongSignature(t *testing.T) {
	r := authRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	rec := doRequest(r, http.MethodGet, "/me", signed)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOrganizerForbidsAttendees(t *testing.T) {
	r := authRouter()

	rec := doRequest(r, http.MethodPost, "/events", signedToken(t, "user-1", "attendee"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(r, http.MethodPost, "/events", signedToken(t, "user-2", "organizer"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Admins can manage events too
	rec = doRequest(r, http.MethodPost, "/events", signedToken(t, "user-3", "admin"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRequireAdminForbidsOrganizers(t *testing.T) {
	r := authRouter()

	rec := doRequest(r, http.MethodPost, "/decide", signedToken(t, "user-1", "organizer"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(r, http.MethodPost, "/decide", signedToken(t, "user-2", "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCapabilityRejectsUnknownRole(t *testing.T) {
	r := authRouter()

	rec := doRequest(r, http.MethodPost, "/events", signedToken(t, "user-1", "superuser"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

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

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
	"github.com/noah-isme/ideaboard-api/pkg/logger"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, username string, role models.UserRole, secret string) string {
	t.Helper()
	now := time.Now()
	claims := &models.JWTClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ideaboard-test",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		v := Viewer(c)
		c.JSON(http.StatusOK, gin.H{"identity": v.Identity, "role": v.Role, "logged": c.GetString(logger.IdentityKey)})
	})
	r.GET("/probe", chain...)
	return r
}

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, nil, service.AuthConfig{Secret: testSecret, Issuer: "ideaboard-test"})
}

func probe(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	r := newRouter(JWT(testAuthService()))

	rec := probe(r, signToken(t, "ana", models.RoleStudent, testSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"ana","role":"student","logged":"ana"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, probe(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(r, signToken(t, "ana", models.RoleStudent, "other")).Code)
}

func TestOptionalJWT(t *testing.T) {
	r := newRouter(OptionalJWT(testAuthService()))

	rec := probe(r, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"","role":"","logged":""}`, rec.Body.String())

	rec = probe(r, "garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"identity":""`)

	rec = probe(r, signToken(t, "vc", models.RoleInvestor, testSecret))
	assert.Contains(t, rec.Body.String(), `"identity":"vc"`)
}

func TestRequireRoles(t *testing.T) {
	auth := testAuthService()
	r := newRouter(JWT(auth), RequireRoles(models.RoleAdmin, models.RoleStudent))

	assert.Equal(t, http.StatusOK, probe(r, signToken(t, "ana", models.RoleStudent, testSecret)).Code)
	assert.Equal(t, http.StatusForbidden, probe(r, signToken(t, "vc", models.RoleInvestor, testSecret)).Code)

	bare := newRouter(RBAC(string(models.RoleAdmin)))
	assert.Equal(t, http.StatusUnauthorized, probe(bare, "").Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var meta map[string]interface{}
	r.GET("/meta", WithResponseMeta(), func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta", nil))

	assert.Equal(t, true, meta[cacheHitKey])
	assert.Contains(t, meta, "processing_time_ms")
}

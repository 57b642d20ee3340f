package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, sub, role string, ttl time.Duration) string {
	t.Helper()
	s, err := SignToken(secret, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
	require.NoError(t, err)
	return s
}

func authRouter(disabled bool) *gin.Engine {
	r := gin.New()
	r.Use(Auth(secret, disabled))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "mode": Mode(c).String()})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, method, path, bearer string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := authRouter(false)

	w := do(r, http.MethodGet, "/whoami", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/whoami", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/whoami", token(t, "u1", "", -time.Minute), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "expired")

	w = do(r, http.MethodGet, "/whoami", token(t, "u1", "", time.Hour), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1","mode":"student"}`, w.Body.String())

	w = do(r, http.MethodGet, "/whoami", token(t, "a1", "admin", time.Hour), nil)
	assert.JSONEq(t, `{"user":"a1","mode":"admin"}`, w.Body.String())
}

func TestAuth_ViewModeHeader(t *testing.T) {
	r := authRouter(false)
	admin := token(t, "a1", "admin", time.Hour)
	student := token(t, "u1", "student", time.Hour)

	w := do(r, http.MethodGet, "/admin", admin, map[string]string{ViewModeHeader: "student"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/admin", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/admin", student, map[string]string{ViewModeHeader: "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuth_Disabled(t *testing.T) {
	w := do(authRouter(true), http.MethodGet, "/whoami", "", nil)
	assert.JSONEq(t, `{"user":"anonymous","mode":"admin"}`, w.Body.String())
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "u1"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(s, secret)
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/", "", nil).Code)

	// Other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example"}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", "", map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodPost, "/x", "", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMode_DefaultsToStudent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.ModeStudent, Mode(c))
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/trace"
	"inkwell/dto"
	"inkwell/models"
)

func newTestGinContext(headerValue string) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	ginCtx, _ := gin.CreateTestContext(recorder)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if headerValue != "" {
		req.Header.Set("Authorization", headerValue)
	}
	ginCtx.Request = req
	return ginCtx, recorder
}

func TestExtractBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name        string
		headerValue string
		wantToken   string
		wantErr     error
	}{
		{name: "missing header", wantErr: ErrMissingHeader},
		{name: "invalid scheme", headerValue: "Basic abc", wantErr: ErrInvalidFormat},
		{name: "missing token part", headerValue: "Bearer", wantErr: ErrInvalidFormat},
		{name: "empty token", headerValue: "Bearer    ", wantErr: ErrEmptyToken},
		{name: "valid bearer token", headerValue: "bearer token-123", wantToken: "token-123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ginCtx, _ := newTestGinContext(tc.headerValue)
			token, err := ExtractBearerToken(ginCtx)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantToken, token)
		})
	}
}

func newAuthEngine(verifier *JWTVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuthor(verifier), func(c *gin.Context) {
		a, _ := AuthorFrom(c)
		c.JSON(http.StatusOK, a)
	})
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthorTrustsPlainToken(t *testing.T) {
	r := newAuthEngine(nil)

	w := call(r, "demo")
	require.Equal(t, http.StatusOK, w.Code)
	var a models.Author
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "demo", a.ID)

	w = call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthorWithJWT(t *testing.T) {
	verifier, err := NewJWTVerifier("test-secret", "")
	require.NoError(t, err)
	r := newAuthEngine(verifier)

	token, err := verifier.Sign(models.Author{ID: "alice", Name: "Alice"})
	require.NoError(t, err)

	w := call(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	var a models.Author
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "alice", a.ID)
	assert.Equal(t, "Alice", a.Name)

	w = call(r, "alice")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body dto.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_token", body.Error)
}

func TestJWTVerifierRejects(t *testing.T) {
	_, err := NewJWTVerifier("", "inkwell")
	require.Error(t, err)

	verifier, err := NewJWTVerifier("service-secret", "inkwell")
	require.NoError(t, err)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	testCases := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{name: "forged signature", token: sign(jwt.MapClaims{"sub": "a", "iss": "inkwell", "exp": exp}, "other-secret")},
		{name: "wrong issuer", token: sign(jwt.MapClaims{"sub": "a", "iss": "someone-else", "exp": exp}, "service-secret")},
		{name: "expired", token: sign(jwt.MapClaims{"sub": "a", "iss": "inkwell", "exp": time.Now().Add(-time.Hour).Unix()}, "service-secret")},
		{name: "missing sub", token: sign(jwt.MapClaims{"iss": "inkwell", "exp": exp}, "service-secret"), wantMsg: "token missing sub claim"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Parse(tc.token)
			require.Error(t, err)
			if tc.wantMsg != "" {
				assert.True(t, strings.Contains(err.Error(), tc.wantMsg))
			}
		})
	}
}

func TestRequestTraceEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTrace())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = trace.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

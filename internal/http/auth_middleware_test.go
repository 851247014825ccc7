package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUserRepo cubre solo las lecturas que usan los middlewares; el resto
// de la interfaz queda sin implementar.
type stubUserRepo struct {
	repository.UserRepository
	users map[string]domain.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

type authFixture struct {
	repo    *stubUserRepo
	tokens  *service.TokenService
	authSvc *service.AuthService
	router  *gin.Engine
}

func newAuthFixture() *authFixture {
	repo := &stubUserRepo{users: map[string]domain.User{
		"u1": {ID: "u1", FullName: "Regular User", Email: "user@example.com", Role: domain.RoleUser, IsActive: true},
		"a1": {ID: "a1", FullName: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true},
		"d1": {ID: "d1", FullName: "Disabled User", Email: "disabled@example.com", Role: domain.RoleUser, IsActive: false},
	}}
	tokens := service.NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	authSvc := service.NewAuthService(zap.NewNop(), repo, tokens)

	router := gin.New()
	router.GET("/protected", RequireAuth(authSvc), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "user_id": user.ID})
	})
	router.GET("/admin-only", RequireAuth(authSvc), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return &authFixture{repo: repo, tokens: tokens, authSvc: authSvc, router: router}
}

func (f *authFixture) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	pair, err := f.tokens.GeneratePair(f.repo.users[userID])
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return pair.AccessToken
}

func (f *authFixture) do(t *testing.T, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	f := newAuthFixture()

	w := f.do(t, "/protected", "Bearer "+f.tokenFor(t, "u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "u1" {
		t.Fatalf("expected identity u1 in context, got %q", resp.UserID)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	f := newAuthFixture()

	for _, header := range []string{"", "Basic abc", "Bearer"} {
		w := f.do(t, "/protected", header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Token không được cung cấp") {
			t.Fatalf("header %q: unexpected body %s", header, w.Body.String())
		}
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	f := newAuthFixture()

	token := f.tokenFor(t, "u1")
	tampered := token[:len(token)-2] + "xx"

	w := f.do(t, "/protected", "Bearer "+tampered)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Token không hợp lệ") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	f := newAuthFixture()

	// Token firmado con el secreto real pero ya vencido.
	now := time.Now().UTC()
	claims := service.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "luong-ban-hoa",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := f.do(t, "/protected", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Token đã hết hạn") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequireAuth_DeactivatedUser(t *testing.T) {
	f := newAuthFixture()

	w := f.do(t, "/protected", "Bearer "+f.tokenFor(t, "d1"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Tài khoản không tồn tại hoặc đã bị khóa") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	f := newAuthFixture()

	token := f.tokenFor(t, "u1")
	delete(f.repo.users, "u1")

	w := f.do(t, "/protected", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAdmin_RoleGate(t *testing.T) {
	f := newAuthFixture()

	w := f.do(t, "/admin-only", "Bearer "+f.tokenFor(t, "u1"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("user token: expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Cần quyền admin để truy cập") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = f.do(t, "/admin-only", "Bearer "+f.tokenFor(t, "a1"))
	if w.Code != http.StatusOK {
		t.Fatalf("admin token: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuth_CaseInsensitiveBearer(t *testing.T) {
	f := newAuthFixture()

	w := f.do(t, "/protected", "bearer "+f.tokenFor(t, "u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

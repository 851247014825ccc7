package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

// Mutaciones del stub que los handlers de auth ejercitan además de las lecturas.

func (s *stubUserRepo) Create(_ context.Context, user domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) SetLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	user.LoginCount++
	s.users[id] = user
	return nil
}

func (s *stubUserRepo) ChangePassword(_ context.Context, id, passwordHash string) error {
	user, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	s.users[id] = user
	return nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id string, upd repository.ProfileUpdate) error {
	user, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	s.users[id] = user
	return nil
}

type handlerFixture struct {
	repo   *stubUserRepo
	router *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	repo := &stubUserRepo{users: make(map[string]domain.User)}
	tokens := service.NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	authSvc := service.NewAuthService(zap.NewNop(), repo, tokens)
	handler := NewAuthHandler(zap.NewNop(), authSvc)

	router := gin.New()
	requireAuth := RequireAuth(authSvc)
	auth := router.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh-token", handler.RefreshToken)
	auth.GET("/verify-token", requireAuth, handler.VerifyToken)
	auth.POST("/change-password", requireAuth, handler.ChangePassword)
	auth.GET("/profile", requireAuth, handler.GetProfile)
	auth.PUT("/update-profile", requireAuth, handler.UpdateProfile)

	return &handlerFixture{repo: repo, router: router}
}

func (f *handlerFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"phone":     "0912345678",
		"password":  "secret1",
	}
}

func (f *handlerFixture) login(t *testing.T, email, password string) (string, string) {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.AccessToken, resp.RefreshToken
}

func TestAuthHandler_Register(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.UserID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(resp.Message, "Jane Doe") {
		t.Fatalf("expected name in message, got %q", resp.Message)
	}

	// Registro repetido con el mismo email.
	w = f.request(t, http.MethodPost, "/api/auth/register", "", registerBody())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email đã được sử dụng") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_RegisterMissingFields(t *testing.T) {
	f := newHandlerFixture()

	w := f.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Thiếu thông tin: phone, password") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_RegisterValidationField(t *testing.T) {
	f := newHandlerFixture()

	body := registerBody()
	body["phone"] = "12345"
	w := f.request(t, http.MethodPost, "/api/auth/register", "", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Field != "phone" {
		t.Fatalf("expected field phone, got %q", resp.Field)
	}
}

func TestAuthHandler_LoginAndVerify(t *testing.T) {
	f := newHandlerFixture()

	if w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("register: %d: %s", w.Code, w.Body.String())
	}

	access, _ := f.login(t, "jane@example.com", "secret1")

	w := f.request(t, http.MethodGet, "/api/auth/verify-token", access, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			Email        string `json:"email"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "jane@example.com" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	// El hash nunca se serializa en respuestas.
	if resp.User.PasswordHash != "" || strings.Contains(w.Body.String(), "password_hash") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	f := newHandlerFixture()

	if w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}

	w := f.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jane@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid email or password") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	f := newHandlerFixture()

	if w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	_, refresh := f.login(t, "jane@example.com", "secret1")

	w := f.request(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected new pair, got %+v", resp)
	}

	w = f.request(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": "garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid refresh token") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	f := newHandlerFixture()

	if w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	access, _ := f.login(t, "jane@example.com", "secret1")

	w := f.request(t, http.MethodPost, "/api/auth/change-password", access, gin.H{
		"current_password": "wrong",
		"new_password":     "newsecret",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong current: expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Mật khẩu hiện tại không đúng") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = f.request(t, http.MethodPost, "/api/auth/change-password", access, gin.H{
		"current_password": "secret1",
		"new_password":     "newsecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// El password nuevo autentica; el anterior ya no.
	f.login(t, "jane@example.com", "newsecret")
	w = f.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jane@example.com", "password": "secret1"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	f := newHandlerFixture()

	if w := f.request(t, http.MethodPost, "/api/auth/register", "", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	access, _ := f.login(t, "jane@example.com", "secret1")

	w := f.request(t, http.MethodPut, "/api/auth/update-profile", access, gin.H{
		"full_name": "Jane Smith",
		"phone":     "0987654321",
		"role":      "admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = f.request(t, http.MethodGet, "/api/auth/profile", access, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", w.Code)
	}
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.FullName != "Jane Smith" || resp.User.Phone != "0987654321" {
		t.Fatalf("profile not updated: %+v", resp.User)
	}
	// El campo role enviado por el cliente se ignora.
	if resp.User.Role != domain.RoleUser {
		t.Fatalf("role should not be mutable, got %q", resp.User.Role)
	}
}

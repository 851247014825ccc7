package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
)

// AuthService orquesta registro, login, perfil y rotación de credenciales.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	tokens *TokenService
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("authentication required")
	ErrWrongPassword      = errors.New("current password incorrect")
)

// ValidationError reporta un campo inválido en la entrada del cliente.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	emailPattern = regexp.MustCompile(`^[\w.\-]+@[\w.\-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^0\d{9,10}$`)
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// Register valida y crea una cuenta nueva con rol user; devuelve el id.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if len([]rune(fullName)) < 2 {
		return "", &ValidationError{Field: "full_name", Message: "Họ và tên phải có ít nhất 2 ký tự"}
	}
	if len(input.Password) < 6 {
		return "", &ValidationError{Field: "password", Message: "Mật khẩu phải có ít nhất 6 ký tự"}
	}
	if !emailPattern.MatchString(email) {
		return "", &ValidationError{Field: "email", Message: "Email không hợp lệ"}
	}
	if !phonePattern.MatchString(phone) {
		return "", &ValidationError{Field: "phone", Message: "Số điện thoại không hợp lệ"}
	}

	// Pre-chequeo amable; el índice único sigue siendo la fuente de verdad
	// ante registros concurrentes con el mismo email.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", repository.ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login autentica por email y password y emite un par de tokens.
// Usuario inexistente, inactivo o password incorrecto producen el mismo
// error para no permitir enumeración de cuentas.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, TokenPair, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}
	if !user.IsActive {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, TokenPair{}, err
	}
	user.LastLogin = &now
	user.LoginCount++

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// VerifyToken decodifica el access token y confirma que el usuario sigue
// existiendo y activo; un token vigente de una cuenta desactivada no sirve.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (domain.User, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotAuthenticated
		}
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, ErrNotAuthenticated
	}
	return user, nil
}

// Refresh valida el refresh token y emite un par nuevo. El refresh token
// anterior sigue siendo válido hasta su expiración: no existe lista de
// revocación en el servidor.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TokenPair{}, ErrNotAuthenticated
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, ErrNotAuthenticated
	}
	return s.tokens.GeneratePair(user)
}

// ChangePassword exige el password vigente antes de rehashear el nuevo.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return &ValidationError{Field: "new_password", Message: "Mật khẩu hiện tại và mật khẩu mới là bắt buộc"}
	}
	if len(newPassword) < 6 {
		return &ValidationError{Field: "new_password", Message: "Mật khẩu mới phải có ít nhất 6 ký tự"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.ChangePassword(ctx, userID, string(hash))
}

type UpdateProfileInput struct {
	FullName *string
	Phone    *string
}

// UpdateProfile muta únicamente full_name y phone; otros campos enviados
// por el cliente se ignoran en el handler, no se rechazan.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error {
	upd := repository.ProfileUpdate{}
	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if len([]rune(fullName)) < 2 {
			return &ValidationError{Field: "full_name", Message: "Họ và tên phải có ít nhất 2 ký tự"}
		}
		upd.FullName = &fullName
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		upd.Phone = &phone
	}
	if upd.FullName == nil && upd.Phone == nil {
		return &ValidationError{Field: "", Message: "Không có dữ liệu để cập nhật"}
	}

	err := s.users.UpdateProfile(ctx, userID, upd)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

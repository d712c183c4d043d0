package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/auth"
	"github.com/modifit/platform/internal/models"
)

const (
	msgRequired         = "Este campo es requerido."
	msgPasswordMismatch = "Las contraseñas no coinciden."
	msgLoginFields      = `Debe incluir "username" y "password".`
	msgRegistered       = "Usuario creado exitosamente"
	msgLoggedIn         = "Login exitoso"

	minPasswordLen = 8
	maxUsernameLen = 150
)

// userError carries a user-facing message and unwraps to a models sentinel.
type userError struct {
	kind error
	msg  string
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.kind }

// Login failures. Both are reported to clients with their message.
var (
	ErrInvalidCredentials error = &userError{models.ErrUnauthorized, "Credenciales inválidas."}
	ErrUserInactive       error = &userError{models.ErrInactive, "Usuario inactivo."}
)

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// Validate checks field presence and lengths, then that both passwords match.
func (i RegisterInput) Validate() error {
	v := &models.ValidationError{}
	switch {
	case strings.TrimSpace(i.Username) == "":
		v.Add("username", msgRequired)
	case utf8.RuneCountInString(i.Username) > maxUsernameLen:
		v.Add("username", fmt.Sprintf("Asegúrese de que este campo no tenga más de %d caracteres.", maxUsernameLen))
	}
	if i.Email != "" {
		if _, err := mail.ParseAddress(i.Email); err != nil {
			v.Add("email", "Introduzca una dirección de correo electrónico válida.")
		}
	}
	switch {
	case i.Password == "":
		v.Add("password", msgRequired)
	case utf8.RuneCountInString(i.Password) < minPasswordLen:
		v.Add("password", fmt.Sprintf("Asegúrese de que este campo tenga al menos %d caracteres.", minPasswordLen))
	}
	if i.PasswordConfirm == "" {
		v.Add("password_confirm", msgRequired)
	}
	if len(v.Errors) > 0 {
		return v
	}
	if i.Password != i.PasswordConfirm {
		return models.NewValidationError("password", msgPasswordMismatch)
	}
	return nil
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is returned by Register, Login and Refresh.
type AuthResult struct {
	User    *models.User `json:"user,omitempty"`
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
	Message string       `json:"message,omitempty"`
}

// AuthService registers users and issues, rotates and revokes tokens.
type AuthService struct {
	log        *slog.Logger
	users      UserStore
	tokens     TokenStore
	jwt        *auth.JWTManager
	refreshTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(log *slog.Logger, users UserStore, tokens TokenStore, jwt *auth.JWTManager,
	refreshTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		log:        log.With("service", "auth"),
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		refreshTTL: refreshTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an active user and issues its first token pair. A taken
// username is a validation error on the username field.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, errors.Join(models.ErrAlreadyExists,
				models.NewValidationError("username", "Ya existe un usuario con este nombre."))
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	res, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	res.Message = msgRegistered
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return res, nil
}

// Login checks credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("non_field_errors", msgLoginFields)
	}

	u, err := s.users.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	res, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	res.Message = msgLoggedIn
	return res, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old one.
// Unknown, expired and revoked tokens are ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	if raw == "" {
		return nil, models.NewValidationError("refresh", msgRequired)
	}

	tok, err := s.tokens.GetRefreshTokenByHash(ctx, auth.HashToken(raw))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}
	if !tok.Usable(s.now()) {
		if tok.RevokedAt != nil {
			s.log.WarnContext(ctx, "revoked refresh token presented", "user_id", tok.UserID)
		}
		return nil, models.ErrUnauthorized
	}

	u, err := s.users.GetUserByID(ctx, tok.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	if err := s.tokens.RevokeRefreshToken(ctx, tok.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Lost a race with another refresh of the same token.
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	res, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}
	res.User = nil
	return res, nil
}

// Logout revokes every refresh token of the user. Access tokens stay valid
// until they expire.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	n, err := s.tokens.RevokeUserRefreshTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoking refresh tokens: %w", err)
	}
	s.log.InfoContext(ctx, "user logged out", "user_id", userID, "revoked", n)
	return nil
}

// Profile returns the user behind an access token.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// Authenticate validates an access token and returns its subject.
func (s *AuthService) Authenticate(token string) (uuid.UUID, error) {
	id, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return id, nil
}

func (s *AuthService) issueTokens(ctx context.Context, u *models.User) (*AuthResult, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	raw, hash, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	if err := s.tokens.CreateRefreshToken(ctx, &models.RefreshToken{
		UserID:    u.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &AuthResult{User: u, Refresh: raw, Access: access}, nil
}

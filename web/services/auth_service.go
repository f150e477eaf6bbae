package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitquest/habitquest/habitquest"
	"github.com/habitquest/habitquest/habitquest/config"
	dbmodels "github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/web/models"
)

// ErrInvalidCredentials is returned for a bad email/password pair. Kept
// deliberately vague so callers cannot probe which accounts exist.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// sessionClaims are the JWT claims embedded in issued tokens.
type sessionClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies JWT access tokens. Verified tokens are
// cached in a bounded LRU so repeated requests skip signature checks.
type AuthService struct {
	users    repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	cache    *lru.Cache
}

func NewAuthService(users repositories.UserRepository, cfg habitquest.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth: jwt_secret is required")
	}

	cache, err := lru.New(config.SessionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create session cache: %w", err)
	}

	ttl := config.DefaultTokenTTL
	if cfg.TokenTTLMinutes > 0 {
		ttl = time.Duration(cfg.TokenTTLMinutes) * time.Minute
	}

	return &AuthService{
		users:    users,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
		cache:    cache,
	}, nil
}

// Register creates a new account and returns the user with a fresh token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*dbmodels.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("username, email and password are required")
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", &repositories.ConflictError{Entity: "user", Field: "username or email", Value: username}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &dbmodels.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("User registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	return user, token, nil
}

// Login verifies the password and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dbmodels.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a new HS256 token for the user.
func (s *AuthService) IssueToken(user *dbmodels.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// cachedSession pairs a verified session with its token expiry so cache hits
// still honor expiration.
type cachedSession struct {
	session   *models.UserSession
	expiresAt time.Time
}

// VerifyToken validates a token string and returns the session it encodes.
func (s *AuthService) VerifyToken(tokenString string) (*models.UserSession, error) {
	if entry, ok := s.cache.Get(tokenString); ok {
		cached := entry.(cachedSession)
		if time.Now().Before(cached.expiresAt) {
			return cached.session, nil
		}
		s.cache.Remove(tokenString)
	}

	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}

	session := &models.UserSession{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
	}
	if claims.ExpiresAt != nil {
		s.cache.Add(tokenString, cachedSession{session: session, expiresAt: claims.ExpiresAt.Time})
	}
	return session, nil
}

// Invalidate drops a token from the verification cache.
func (s *AuthService) Invalidate(tokenString string) {
	s.cache.Remove(tokenString)
}

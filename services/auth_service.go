package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hotel-desk/apperrors"
	"hotel-desk/models"
	"hotel-desk/validation"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultTokenTTL = 12 * time.Hour

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type AuthService struct {
	DB     *gorm.DB
	Log    *slog.Logger
	secret []byte
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, logger *slog.Logger, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{DB: db, Log: logger, secret: []byte(secret), ttl: ttl}
}

// Register creates a receptionist account.
func (s *AuthService) Register(ctx context.Context, username, password, confirm string) (models.User, error) {
	username, err := validation.Signup(username, password, confirm)
	if err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperrors.Storage("hash password", err)
	}

	user := models.User{Username: username, PasswordHash: string(hash), Role: models.RoleReceptionist}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return models.User{}, apperrors.New(apperrors.CodeUserExists, "Username already registered", err)
		}
		return models.User{}, apperrors.Storage("create user", err)
	}
	s.Log.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks a username and password pair. Unknown users and
// wrong passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, apperrors.Storage("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *AuthService) IssueToken(user models.User) (string, time.Time, error) {
	expires := time.Now().Add(s.ttl)
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken verifies a token and returns its user id.
func (s *AuthService) ParseToken(raw string) (uint, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.New(apperrors.CodeUnauthorized, "invalid or expired token", err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.CodeUnauthorized, "invalid token subject", err)
	}
	return uint(id), nil
}

// Lookup resolves a user id to an identity. The role is read from the
// database, not the token, so role changes apply immediately.
func (s *AuthService) Lookup(ctx context.Context, userID uint) (Identity, bool, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, apperrors.Storage("lookup user", err)
	}
	return Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, true, nil
}

// SeedAdmin creates the first admin when no admin exists yet.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{Username: username, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := s.DB.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	s.Log.InfoContext(ctx, "default admin seeded", "username", username)
	return nil
}

// LandingPath is where a user goes after login.
func LandingPath(role models.Role) string {
	if role == models.RoleReceptionist {
		return "/booking"
	}
	return "/"
}

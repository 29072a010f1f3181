package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

const defaultBcryptCost = 10

// AuthService registers users, checks passwords and issues access tokens.
type AuthService struct {
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	log    zerolog.Logger
}

func NewAuthService(store *repository.Store, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   defaultBcryptCost,
		now:    time.Now,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// Session is returned after a successful register or login.
type Session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(apperr.CodeUserMissingEmailPassword, "email and password are required")
	}

	_, err := s.store.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errEmailTaken()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Internal("could not register user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Internal("could not register user", err)
	}
	user := model.User{Email: &email, PasswordHash: string(hash)}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailTaken()
		}
		return nil, apperr.Internal("could not register user", err)
	}
	s.log.Info().Str("user", user.ID).Msg("user registered")
	return s.session(&user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(apperr.CodeUserMissingEmailPassword, "email and password are required")
	}
	user, err := s.store.Users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials()
	}
	if err != nil {
		return nil, apperr.Internal("could not log in", err)
	}
	if user.PasswordHash == "" {
		return nil, errBadCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials()
	}
	return s.session(user)
}

// Authenticate validates an access token and returns the id of the user it
// was issued to. The user must still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errBadToken()
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", errBadToken()
	}
	user, err := s.store.Users.FindByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errBadToken()
	}
	if err != nil {
		return "", apperr.Internal("could not authenticate", err)
	}
	return user.ID, nil
}

// IssueToken signs an access token for userID.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) session(user *model.User) (*Session, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, apperr.Internal("could not issue token", err)
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func errEmailTaken() error {
	return apperr.Conflict(apperr.CodeUserEmailExists, "user with this email already exists")
}

func errBadCredentials() error {
	return apperr.Unauthorized(apperr.CodeUserInvalidCredentials, "invalid email or password")
}

func errBadToken() error {
	return apperr.Unauthorized(apperr.CodeInvalidAccessToken, "invalid or expired access token")
}

package services

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *logger.Logger
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log.With("service", "AuthService"),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, invalid("email", "must be a valid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, invalid("password", "must be at least 6 characters")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, invalid("name", "first and last name are required")
	}

	dbc := dbctx.New(ctx)
	existing, err := s.users.FindByEmail(dbc, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(dbc, user); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(dbctx.New(ctx), email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate verifies the token and resolves the caller. The role comes
// from the stored user so demotions apply before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	user, err := s.users.FindByID(dbctx.New(ctx), userID)
	if err != nil {
		return domain.Identity{}, err
	}
	if user == nil {
		return domain.Identity{}, ErrInvalidToken
	}
	if user.IsBlocked {
		return domain.Identity{}, ErrAccountBlocked
	}
	return domain.Identity{UserID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint64) (*domain.User, error) {
	user, err := s.users.FindByID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, patch ProfilePatch) (*domain.User, error) {
	updates := map[string]interface{}{}
	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, invalid("first_name", "must not be empty")
		}
		updates["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return nil, invalid("last_name", "must not be empty")
		}
		updates["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		updates["phone"] = strings.TrimSpace(*patch.Phone)
	}
	user, err := s.users.UpdateFields(dbctx.New(ctx), userID, updates)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

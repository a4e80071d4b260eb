package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

const tokenTTL = 24 * time.Hour

// AuthClaims is the JWT payload carried by every bearer token.
type AuthClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type UserStore interface {
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
}

type UserService struct {
	users     UserStore
	rdb       *redis.Client
	jwtSecret []byte
}

func NewUserService(users UserStore, rdb *redis.Client, jwtSecret string) *UserService {
	return &UserService{users: users, rdb: rdb, jwtSecret: []byte(jwtSecret)}
}

// RegisterInput is the signup payload. Role is never client-controlled.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) validate() error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return ErrInvalidInput
	}
	return nil
}

// Register creates a customer account. Public signup always gets the
// customer role.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.createUser(ctx, in, entity.RoleCustomer)
}

// CreateManager creates a manager account; the handler gates this behind the
// admin role.
func (s *UserService) CreateManager(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.createUser(ctx, in, entity.RoleManager)
}

func (s *UserService) createUser(ctx context.Context, in RegisterInput, role string) (*entity.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: string(hash),
		Role:     role,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a signed bearer token. The session
// is mirrored into redis keyed by username so it can be revoked server side.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, "session:"+user.Username, token, tokenTTL).Err(); err != nil {
			logger.Warn().Err(err).Msgf("Error storing session for %s", user.Username)
		}
	}

	return token, nil
}

// EnsureAdmin bootstraps the admin account from configuration. It is a
// no-op when the account already exists or no credentials are configured.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, &entity.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     entity.RoleAdmin,
	})
	return err
}

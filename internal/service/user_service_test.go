package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

type fakeUserStore struct {
	byUsername map[string]*entity.User
	nextID     int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byUsername: map[string]*entity.User{}, nextID: 1}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*entity.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if _, ok := f.byUsername[user.Username]; ok {
		return nil, repository.ErrDuplicate
	}
	user.ID = f.nextID
	f.nextID++
	f.byUsername[user.Username] = user
	return user, nil
}

func TestRegisterForcesCustomerRole(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil, "secret")

	user, err := svc.Register(context.Background(), RegisterInput{Username: "u1", Email: "u1@example.com", Password: "Test@1234"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, user.Role)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "Test@1234", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Test@1234")))
}

func TestCreateManagerRole(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, "secret")

	user, err := svc.CreateManager(context.Background(), RegisterInput{Username: "m1", Email: "m1@example.com", Password: "pass123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, user.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, "secret")

	_, err := svc.Register(context.Background(), RegisterInput{Username: "u1", Email: "a@example.com", Password: "x1"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterInput{Username: "u1", Email: "b@example.com", Password: "x2"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil, "secret")

	_, err := svc.Register(context.Background(), RegisterInput{Username: "u1", Email: "u1@example.com", Password: "Test@123"})
	require.NoError(t, err)

	t.Run("issues a parseable token carrying the role", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "u1", "Test@123")
		require.NoError(t, err)

		claims := &AuthClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, "u1", claims.Username)
		assert.Equal(t, entity.RoleCustomer, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "u1", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ghost", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestEnsureAdmin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil, "secret")

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin@example.com", "hunter2"))
	admin, err := store.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	// Second call is a no-op.
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin@example.com", "hunter2"))

	// Missing credentials skip bootstrapping entirely.
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", "", ""))
}

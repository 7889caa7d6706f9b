package services

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	return NewAuthService(mysqlrepo.NewUserRepository(db), testSecret, time.Hour, testutil.Logger(t)), db
}

func registerInput(email string) RegisterInput {
	return RegisterInput{Email: email, Password: "secret1", FirstName: "Ada", LastName: "Lovelace"}
}

func TestAuthService_RegisterLoginAuthenticate(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput("Ada@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleCustomer, reg.User.Role)
	assert.NotEqual(t, "secret1", reg.User.PasswordHash)
	assert.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id.UserID)
	assert.Equal(t, domain.RoleCustomer, id.Role)
}

func TestAuthService_RegisterRejections(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput("taken@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("TAKEN@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{name: "bad email", mutate: func(in *RegisterInput) { in.Email = "not-an-email" }, field: "email"},
		{name: "display name email", mutate: func(in *RegisterInput) { in.Email = "Bob <bob@example.com>" }, field: "email"},
		{name: "angle bracket email", mutate: func(in *RegisterInput) { in.Email = "<bob@example.com>" }, field: "email"},
		{name: "short password", mutate: func(in *RegisterInput) { in.Password = "12345" }, field: "password"},
		{name: "missing name", mutate: func(in *RegisterInput) { in.LastName = "" }, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registerInput("new@example.com")
			tt.mutate(&in)
			_, err := svc.Register(ctx, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerInput("user@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", reg.User.ID).Update("is_blocked", true).Error)
	_, err = svc.Login(ctx, "user@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAccountBlocked)
	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestAuthService_AuthenticateRejectsBadTokens(t *testing.T) {
	users := new(mocks.MockUserRepository)
	svc := NewAuthService(users, testSecret, time.Hour, nopLogger())
	user := &domain.User{ID: 3, Role: domain.RoleAdmin}

	expired := NewAuthService(users, testSecret, time.Hour, nopLogger())
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.IssueToken(user)
	require.NoError(t, err)

	foreign := NewAuthService(users, "another-secret", time.Hour, nopLogger())
	foreignToken, err := foreign.IssueToken(user)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "3"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expiredToken,
		"wrong secret": foreignToken,
		"alg none":     noneToken,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_AuthenticateUsesStoredRole(t *testing.T) {
	users := new(mocks.MockUserRepository)
	svc := NewAuthService(users, testSecret, time.Hour, nopLogger())
	token, err := svc.IssueToken(&domain.User{ID: 3, Role: domain.RoleAdmin})
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, uint64(3)).Return(&domain.User{ID: 3, Role: domain.RoleCustomer}, nil)

	id, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, id.Role)
	users.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerInput("profile@example.com"))
	require.NoError(t, err)

	first, phone := "Augusta", "555-0100"
	user, err := svc.UpdateProfile(ctx, reg.User.ID, ProfilePatch{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "555-0100", user.Phone)

	empty := " "
	_, err = svc.UpdateProfile(ctx, reg.User.ID, ProfilePatch{LastName: &empty})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Profile(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

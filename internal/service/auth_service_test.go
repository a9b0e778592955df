package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lexpay/internal/auth"
	"lexpay/internal/model"
)

func newAuthService() (AuthService, *MockUserRepository, *MockTokenStore) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-jwt-secret")
	return NewAuthService(userRepo, jwtService, tokenStore), userRepo, tokenStore
}

func hashedTestUser(email, password string, role model.UserRole) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
}

func TestRegister_Success(t *testing.T) {
	svc, userRepo, _ := newAuthService()
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "merchant@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.Register(ctx, "merchant@example.com", "password123", "Acme Legal", model.RoleMerchant)

	assert.NoError(t, err)
	assert.Equal(t, "merchant@example.com", user.Email)
	assert.Equal(t, model.RoleMerchant, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newAuthService()
	ctx := context.Background()
	existing := hashedTestUser("merchant@example.com", "password123", model.RoleMerchant)

	userRepo.On("FindByEmail", ctx, "merchant@example.com").Return(existing, nil)

	user, err := svc.Register(ctx, "merchant@example.com", "password123", "Acme Legal", model.RoleMerchant)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, tokenStore := newAuthService()
	ctx := context.Background()
	user := hashedTestUser("payer@example.com", "password123", model.RolePayer)

	userRepo.On("FindByEmail", ctx, "payer@example.com").Return(user, nil)
	tokenStore.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), user.ID, user.Email, string(user.Role), auth.RefreshTokenExpiry).Return(nil)

	accessToken, refreshToken, loggedIn, err := svc.Login(ctx, "payer@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.ID, loggedIn.ID)
	tokenStore.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, tokenStore := newAuthService()
	ctx := context.Background()
	user := hashedTestUser("payer@example.com", "password123", model.RolePayer)

	userRepo.On("FindByEmail", ctx, "payer@example.com").Return(user, nil)

	_, _, _, err := svc.Login(ctx, "payer@example.com", "wrong-password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokenStore.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, userRepo, _ := newAuthService()
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_Success(t *testing.T) {
	svc, userRepo, tokenStore := newAuthService()
	ctx := context.Background()
	user := hashedTestUser("payer@example.com", "password123", model.RolePayer)

	userRepo.On("FindByEmail", ctx, "payer@example.com").Return(user, nil)
	var storedTokenID string
	tokenStore.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), user.ID, user.Email, string(user.Role), auth.RefreshTokenExpiry).
		Run(func(args mock.Arguments) {
			storedTokenID = args.String(1)
		}).Return(nil)

	_, refreshToken, _, err := svc.Login(ctx, "payer@example.com", "password123")
	assert.NoError(t, err)

	tokenStore.On("GetRefreshToken", ctx, storedTokenID).Return(user.ID, user.Email, string(user.Role), nil)

	accessToken, err := svc.RefreshToken(ctx, refreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout_DeletesRefreshToken(t *testing.T) {
	svc, userRepo, tokenStore := newAuthService()
	ctx := context.Background()
	user := hashedTestUser("payer@example.com", "password123", model.RolePayer)

	userRepo.On("FindByEmail", ctx, "payer@example.com").Return(user, nil)
	tokenStore.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), user.ID, user.Email, string(user.Role), auth.RefreshTokenExpiry).Return(nil)
	tokenStore.On("DeleteRefreshToken", ctx, mock.AnythingOfType("string")).Return(nil)

	_, refreshToken, _, err := svc.Login(ctx, "payer@example.com", "password123")
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx, refreshToken))
	tokenStore.AssertCalled(t, "DeleteRefreshToken", ctx, mock.AnythingOfType("string"))
}

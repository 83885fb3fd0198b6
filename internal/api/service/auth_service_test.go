package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/validation"
	"reviewhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockMailer mocks the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmationCode(ctx context.Context, to, code string) error {
	args := m.Called(ctx, to, code)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-test-secret-test-secret",
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestSignUp_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	var sentCode string
	mockMail.On("SendConfirmationCode", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sentCode = args.String(2) }).
		Return(nil)

	user, err := authService.SignUp(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Len(t, sentCode, 256)
	assert.NotNil(t, user.ConfirmationCode)
	assert.Equal(t, sentCode, *user.ConfirmationCode)
	mockUserRepo.AssertExpectations(t)
	mockMail.AssertExpectations(t)
}

func TestSignUp_RepeatIsIdempotent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	code := "stored-code"
	existing := &models.User{Username: "alice", Email: "alice@example.com", ConfirmationCode: &code}
	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(existing, nil)

	user, err := authService.SignUp(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	mockUserRepo.AssertExpectations(t)
	// no new code, no new mail
	mockMail.AssertNotCalled(t, "SendConfirmationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_UsernameTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "new@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice"}, nil)

	user, err := authService.SignUp(context.Background(), "alice", "new@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
	var violation *validation.Violation
	assert.ErrorAs(t, err, &violation)
	assert.Equal(t, "username", violation.Field)
	mockUserRepo.AssertExpectations(t)
}

func TestSignUp_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "bob", "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{Email: "alice@example.com"}, nil)

	user, err := authService.SignUp(context.Background(), "bob", "alice@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
	var violation *validation.Violation
	assert.ErrorAs(t, err, &violation)
	assert.Equal(t, "email", violation.Field)
	mockUserRepo.AssertExpectations(t)
}

func TestSignUp_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "me", "me@example.com").
		Return(nil, gorm.ErrRecordNotFound)

	user, err := authService.SignUp(context.Background(), "me", "me@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
	var violation *validation.Violation
	assert.ErrorAs(t, err, &violation)
	assert.Equal(t, "username", violation.Field)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_MailDeliveryFails(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockMail.On("SendConfirmationCode", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
		Return(errors.New("smtp: connection refused"))

	user, err := authService.SignUp(context.Background(), "alice", "alice@example.com")

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrMailDelivery)
	assert.Nil(t, user)
	mockMail.AssertExpectations(t)
}

func TestIssueToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	cfg := testAuthConfig()
	authService := NewAuthService(mockUserRepo, mockMail, cfg)

	code := "valid-code"
	user := &models.User{
		ID:               "user-id",
		Username:         "alice",
		Role:             models.RoleUser,
		ConfirmationCode: &code,
	}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "valid-code")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestIssueToken_WrongCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	code := "valid-code"
	user := &models.User{ID: "user-id", Username: "alice", ConfirmationCode: &code}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "wrong-code")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCode, err)
	assert.Empty(t, token)
}

func TestIssueToken_NoStoredCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	user := &models.User{ID: "user-id", Username: "alice"}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", "anything")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCode, err)
	assert.Empty(t, token)
}

func TestIssueToken_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.IssueToken(context.Background(), "ghost", "some-code")

	assert.Error(t, err)
	assert.Equal(t, ErrNotFound, err)
	assert.Empty(t, token)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	cfg := testAuthConfig()
	authService := NewAuthService(mockUserRepo, mockMail, cfg)

	claims := &Claims{
		UserID:   "user-id",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validated, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validated)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	claims := &Claims{
		UserID:   "user-id",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("a-different-secret"))

	validated, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validated)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	authService := NewAuthService(mockUserRepo, mockMail, testAuthConfig())

	validated, err := authService.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, validated)
}

func TestGenerateCode_AlphabetAndLength(t *testing.T) {
	code, err := generateCode(confirmationCodeLen)

	assert.NoError(t, err)
	assert.Len(t, code, confirmationCodeLen)
	for _, r := range code {
		assert.Contains(t, codeAlphabet, string(r))
	}

	other, err := generateCode(confirmationCodeLen)
	assert.NoError(t, err)
	assert.NotEqual(t, code, other)
}

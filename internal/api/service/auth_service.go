package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/validation"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// confirmation codes match the original flow: 256 characters drawn from
// a cryptographically random alphanumeric alphabet.
const (
	confirmationCodeLen = 256
	codeAlphabet        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Claims is the payload of an issued access token.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SignUp creates a pending user and mails them a confirmation code.
	// Repeating the call with the same (username, email) pair is a no-op
	// that succeeds without regenerating the code.
	SignUp(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a matching confirmation code for a signed
	// access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mail           mailer.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		mail:           mail,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) SignUp(ctx context.Context, username, email string) (*models.User, error) {
	// Exact (username, email) match means the signup already happened:
	// answer success, keep the stored code, send nothing.
	existing, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, &validation.Violation{Field: "username", Message: "username already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, &validation.Violation{Field: "email", Message: "email already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code, err := generateCode(confirmationCodeLen)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: &code,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent signup may have won the unique-index race
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &validation.Violation{Field: "username", Message: "username or email already exists"}
		}
		return nil, err
	}

	if err := s.mail.SendConfirmationCode(ctx, email, code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == nil ||
		subtle.ConstantTimeCompare([]byte(*user.ConfirmationCode), []byte(code)) != 1 {
		return "", ErrInvalidCode
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateCode(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range raw {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

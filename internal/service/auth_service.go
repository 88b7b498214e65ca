package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/repository"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

const (
	tokenTTL    = 24 * time.Hour
	trialPeriod = 30 * 24 * time.Hour
)

var (
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID uint
	Email  string
	Role   authorization.UserRole
	Plan   authorization.Plan
}

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// Register creates a customer account on the free plan with a 30 day trial.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.userRepo.GetByEmail(email)
	if err == nil && existingUser != nil {
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         validator.SanitizeString(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         authorization.RoleCustomer,
		Plan:         authorization.PlanFree,
		Status:       authorization.StatusActive,
		ValidUntil:   s.now().Add(trialPeriod),
		CPF:          strings.TrimSpace(req.CPF),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      validator.SanitizeString(req.Address),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureAdmin creates the first administrator when the user table is empty.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(name, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, nil
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.Register(models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return false, err
	}

	user.Role = authorization.RoleAdmin
	user.Plan = authorization.PlanEnterprise
	if err := s.userRepo.Update(user); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) Login(req models.LoginRequest) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.Status.CanSignIn() {
		return "", nil, ErrAccountDisabled
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"plan":    string(user.Plan),
		"exp":     s.now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
}

// ParseToken verifies tokenString and extracts its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, ok := mapClaims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	claims := &Claims{UserID: uint(rawID)}
	claims.Email, _ = mapClaims["email"].(string)

	role, ok := authorization.ParseUserRole(mapClaims["role"])
	if !ok {
		return nil, fmt.Errorf("%w: unknown role", ErrInvalidToken)
	}
	claims.Role = role

	plan, _ := mapClaims["plan"].(string)
	if parsed, ok := authorization.ParsePlan(plan); ok {
		claims.Plan = parsed
	} else {
		claims.Plan = authorization.PlanFree
	}

	return claims, nil
}

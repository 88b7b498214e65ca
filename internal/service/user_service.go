package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/repository"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrCannotDemoteMe = errors.New("administrators cannot remove their own access")
)

// UserService is the administration side of user accounts.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.GetAll()
}

func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies the fields present in req. actorID is the administrator
// making the change; they may not lock themselves out.
func (s *UserService) Update(actorID, id uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = validator.SanitizeString(*req.Name)
	}

	if req.Role != nil {
		role, ok := authorization.ParseUserRole(*req.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		if actorID == id && role != authorization.RoleAdmin {
			return nil, ErrCannotDemoteMe
		}
		user.Role = role
	}

	if req.Plan != nil {
		plan, ok := authorization.ParsePlan(*req.Plan)
		if !ok {
			return nil, ErrInvalidPlan
		}
		user.Plan = plan
	}

	if req.Status != nil {
		status := authorization.UserStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		if actorID == id && !status.CanSignIn() {
			return nil, ErrCannotDemoteMe
		}
		user.Status = status
	}

	if req.ValidUntil.Set {
		if req.ValidUntil.Value != nil {
			user.ValidUntil = *req.ValidUntil.Value
		} else {
			user.ValidUntil = time.Time{}
		}
	}

	if req.Usage != nil {
		user.Usage = *req.Usage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(actorID, id uint) error {
	if actorID == id {
		return ErrCannotDemoteMe
	}
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

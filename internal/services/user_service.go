package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// UserService implements UserServicer on top of GORM.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service.
func NewUserService(db *gorm.DB) UserServicer {
	return &UserService{db: db}
}

// CreateUser registers a new account with a bcrypt-hashed password.
// Emails are stored lowercased and must be unique.
func (s *UserService) CreateUser(email, password, firstName, lastName string, role models.Role) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, storeError(err)
	}

	return user, nil
}

// GetUserByEmail returns the user with the given email.
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// GetUserByID returns the user with the given ID.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// VerifyPassword reports whether the plaintext password matches the
// user's stored hash.
func (s *UserService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

package services

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

// Validation errors surfaced to the caller as rejected operations.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrCategoryRestricted  = errors.New("you can only be referred to the same category or one level below the referrer")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// AuthService handles registration and login
type AuthService struct {
	db              *gorm.DB
	referralService *ReferralService
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db:              db,
		referralService: NewReferralService(db),
	}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	FullName      string
	Email         string
	Phone         string
	Password      string
	BankName      string
	AccountNumber string
	AccountName   string
	Category      models.Category
	ReferredBy    string // referrer's referral code, optional
}

// Register validates the input, creates the user and, when a referral code
// was supplied, the referral edge carrying the referrer's current commission
// rate. All validation runs before anything is written, so a rejected
// registration leaves no partial state.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if !input.Category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", input.Category)
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	// Resolve and validate the referrer before creating anything
	var referrer *models.User
	if input.ReferredBy != "" {
		var ref models.User
		if err := s.db.Where("referral_code = ?", input.ReferredBy).First(&ref).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrInvalidReferralCode
			}
			return nil, err
		}

		// A referrer can only bring users into their own category or one
		// tier above it; this keeps low tiers from seeding high-tier
		// downlines directly.
		if input.Category.Level() > ref.Category.Level()+1 {
			return nil, ErrCategoryRestricted
		}

		referrer = &ref
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.referralService.GenerateUniqueReferralCode(input.FullName)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:      input.FullName,
		Email:         input.Email,
		Phone:         input.Phone,
		Password:      string(hashed),
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
		Category:      input.Category,
		ReferralCode:  code,
		IsActive:      true,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ReferralCode
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if referrer != nil {
		if _, err := s.referralService.CreateReferral(referrer, user.ID); err != nil {
			log.Printf("Warning: failed to create referral for user %d: %v", user.ID, err)
		}
	}

	log.Printf("New user registered: %s (ID: %d, category: %s)", user.Email, user.ID, user.Category)
	return &user, nil
}

// Login verifies the credentials and returns the user.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	log.Printf("User logged in: %s (ID: %d)", user.Email, user.ID)
	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/utils"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service interface {
	Register(in RegisterInput) (*User, error)
	Login(in LoginInput) (string, *User, error)

	RegisterOrgUser(orgID uint, in RegisterInput) (*OrgUser, error)
	LoginOrg(orgID uint, in LoginInput) (string, *OrgUser, error)

	// ResolvePrincipal loads the acting user for a validated token. Used by
	// the auth middleware on every request.
	ResolvePrincipal(authType string, organizationID *uint, userID uint) (*Principal, error)

	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
}

type service struct {
	repo        Repository
	secret      string
	ttl         time.Duration
	maxAttempts int
	lockWindow  time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:        r,
		secret:      cfg.JWTSecret,
		ttl:         time.Duration(cfg.JWTTTLHours) * time.Hour,
		maxAttempts: cfg.LockoutMaxAttempts,
		lockWindow:  time.Duration(cfg.LockoutWindowMinutes) * time.Minute,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	UserType string
}

type LoginInput struct {
	Email    string
	Password string
}

// ==============================
// Registration
// ==============================

func validateRegister(in RegisterInput, allowedTypes []string) error {
	var errs []string
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRe.MatchString(in.Email) {
		errs = append(errs, "email format is invalid")
	}
	if len(in.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	typeOK := false
	for _, t := range allowedTypes {
		if in.UserType == t {
			typeOK = true
			break
		}
	}
	if !typeOK {
		errs = append(errs, fmt.Sprintf("user_type %q is not allowed", in.UserType))
	}
	if len(errs) > 0 {
		return apperror.Validation(errs...)
	}
	return nil
}

func (s *service) Register(in RegisterInput) (*User, error) {
	if err := validateRegister(in, []string{"customer", "washer", "staff", "admin"}); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExistsGlobal(in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName:     in.FullName,
		Email:        strings.ToLower(in.Email),
		Phone:        in.Phone,
		PasswordHash: string(hash),
		UserType:     in.UserType,
		Status:       "pending",
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) RegisterOrgUser(orgID uint, in RegisterInput) (*OrgUser, error) {
	if err := validateRegister(in, []string{"student", "teacher", "staff", "admin"}); err != nil {
		return nil, err
	}

	status, _, registrationEnabled, err := s.repo.OrgStatus(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("organization not found")
	}
	if err != nil {
		return nil, err
	}
	if status != "active" {
		return nil, apperror.NotFound("organization is not configured for registration")
	}
	if !registrationEnabled {
		return nil, apperror.AccessDenied("registration is disabled for this organization")
	}

	email := strings.ToLower(in.Email)

	// Reject emails already registered in either scope: an email that exists
	// globally must not be re-registered under a tenant.
	inOrg, err := s.repo.EmailExistsInOrg(orgID, email)
	if err != nil {
		return nil, err
	}
	global, err := s.repo.EmailExistsGlobal(email)
	if err != nil {
		return nil, err
	}
	if inOrg || global {
		return nil, apperror.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &OrgUser{
		OrganizationID: orgID,
		FullName:       in.FullName,
		Email:          email,
		Phone:          in.Phone,
		PasswordHash:   string(hash),
		UserType:       in.UserType,
		Status:         "pending",
	}
	if err := s.repo.CreateOrgUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ==============================
// Login
// ==============================

// checkLock returns a 423 while the lock window is open. An expired lock does
// not block the attempt; the counter clears on the next success.
func (s *service) checkLock(lockedUntil *time.Time) error {
	if lockedUntil != nil && time.Now().Before(*lockedUntil) {
		return apperror.Locked("account is temporarily locked, try again later")
	}
	return nil
}

func (s *service) recordFailure(authType string, userID uint, attempts int) error {
	attempts++
	var until *time.Time
	if attempts >= s.maxAttempts {
		t := time.Now().Add(s.lockWindow)
		until = &t
	}
	if err := s.repo.RecordFailedAttempt(authType, userID, attempts, until); err != nil {
		return err
	}
	return apperror.Unauthenticated("invalid credentials")
}

func (s *service) Login(in LoginInput) (string, *User, error) {
	user, err := s.repo.FindUserByEmail(strings.ToLower(in.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperror.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}

	if err := s.checkLock(user.LockedUntil); err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, s.recordFailure("global", user.ID, user.FailedLoginAttempts)
	}

	if user.Status != "active" {
		return "", nil, apperror.AccessDenied("Account is not active")
	}

	now := time.Now()
	if err := s.repo.StampLogin("global", user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLoginAt = &now

	token, err := s.generateToken(user.ID, user.Email, user.UserType, user.InstitutionID, "global", nil)
	return token, user, err
}

func (s *service) LoginOrg(orgID uint, in LoginInput) (string, *OrgUser, error) {
	status, loginEnabled, _, err := s.repo.OrgStatus(orgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperror.NotFound("organization not found")
	}
	if err != nil {
		return "", nil, err
	}
	if status != "active" {
		return "", nil, apperror.NotFound("organization is not configured")
	}
	if !loginEnabled {
		return "", nil, apperror.AccessDenied("login is disabled for this organization")
	}

	user, err := s.repo.FindOrgUserByEmail(orgID, strings.ToLower(in.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperror.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}

	if err := s.checkLock(user.LockedUntil); err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, s.recordFailure("organization", user.ID, user.FailedLoginAttempts)
	}

	if user.Status != "active" {
		return "", nil, apperror.AccessDenied("Account is not active")
	}

	now := time.Now()
	if err := s.repo.StampLogin("organization", user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLoginAt = &now

	token, err := s.generateToken(user.ID, user.Email, user.UserType, nil, "organization", &orgID)
	return token, user, err
}

func (s *service) generateToken(userID uint, email, userType string, institutionID *uint, authType string, orgID *uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"email":     email,
		"user_type": userType,
		"auth_type": authType,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}
	if institutionID != nil {
		claims["institution_id"] = *institutionID
	}
	if orgID != nil {
		claims["organization_id"] = *orgID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ==============================
// Principal resolution
// ==============================

func (s *service) ResolvePrincipal(authType string, organizationID *uint, userID uint) (*Principal, error) {
	if authType == "organization" {
		if organizationID == nil {
			return nil, apperror.Unauthenticated("organization_id missing in token")
		}
		status, _, _, err := s.repo.OrgStatus(*organizationID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && status != "active") {
			return nil, apperror.NotFound("organization not found")
		}
		if err != nil {
			return nil, err
		}
		u, err := s.repo.FindOrgUserByID(*organizationID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthenticated("user not found")
		}
		if err != nil {
			return nil, err
		}
		if u.Status != "active" {
			return nil, apperror.AccessDenied("Account is not active")
		}
		return &Principal{
			ID:             u.ID,
			FullName:       u.FullName,
			Email:          u.Email,
			UserType:       u.UserType,
			Status:         u.Status,
			OrganizationID: organizationID,
		}, nil
	}

	u, err := s.repo.FindUserByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthenticated("user not found")
	}
	if err != nil {
		return nil, err
	}
	if u.Status != "active" {
		return nil, apperror.AccessDenied("Account is not active")
	}
	return &Principal{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		UserType:       u.UserType,
		Status:         u.Status,
		OrganizationID: u.InstitutionID,
	}, nil
}

// ==============================
// Password reset
// ==============================

func (s *service) RequestPasswordReset(email string) error {
	user, err := s.repo.FindUserByEmail(strings.ToLower(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Do not reveal whether the account exists.
		return nil
	}
	if err != nil {
		return err
	}

	resetToken := generateSecureToken()
	key := fmt.Sprintf("reset_token:%s", resetToken)
	if err := utils.SetToken(key, fmt.Sprint(user.ID), 15*time.Minute); err != nil {
		return err
	}

	return utils.SendResetLink(user.Email, resetToken)
}

func (s *service) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 6 {
		return apperror.Validation("password must be at least 6 characters")
	}

	key := fmt.Sprintf("reset_token:%s", token)
	val, err := utils.GetToken(key)
	if err != nil {
		return apperror.Validation("invalid or expired reset token")
	}

	var userID uint
	if _, err := fmt.Sscan(val, &userID); err != nil {
		return apperror.Validation("invalid or expired reset token")
	}

	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return apperror.Validation("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.UpdateUser(user); err != nil {
		return err
	}

	_ = utils.DeleteToken(key)
	return nil
}

func generateSecureToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

package employee

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/utils"
)

// Service manages the accounts of one tenant. Only the auth flows touch
// passwords and lockout state; everything else an org admin does with their
// people lives here.
type Service interface {
	List(orgID uint, userType, status string) ([]auth.OrgUser, error)
	Get(orgID, id uint) (*auth.OrgUser, error)
	Create(orgID uint, in CreateInput) (*auth.OrgUser, error)
	Update(orgID, id uint, in UpdateInput) (*auth.OrgUser, error)
	UpdateStatus(orgID, id uint, status string) (*auth.OrgUser, error)
	ResetPassword(orgID, id uint, newPassword, adminName string) error
	Delete(orgID, id uint) error
}

type service struct{ repo Repository }

func NewService(r Repository) Service {
	return &service{repo: r}
}

type CreateInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	UserType string
}

type UpdateInput struct {
	FullName string
	Phone    string
	UserType string
}

var orgUserTypes = map[string]bool{
	"admin":   true,
	"teacher": true,
	"staff":   true,
	"student": true,
}

func (s *service) List(orgID uint, userType, status string) ([]auth.OrgUser, error) {
	return s.repo.List(orgID, userType, status)
}

func (s *service) Get(orgID, id uint) (*auth.OrgUser, error) {
	u, err := s.repo.FindByID(orgID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user not found in organization")
	}
	return u, err
}

// Create adds an account on behalf of an org admin. Unlike self-registration
// the account starts active.
func (s *service) Create(orgID uint, in CreateInput) (*auth.OrgUser, error) {
	var errs []string
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if len(in.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if !orgUserTypes[in.UserType] {
		errs = append(errs, "user_type must be one of admin, teacher, staff, student")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs...)
	}

	email := strings.ToLower(in.Email)
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

	u := &auth.OrgUser{
		OrganizationID: orgID,
		FullName:       in.FullName,
		Email:          email,
		Phone:          in.Phone,
		PasswordHash:   string(hash),
		UserType:       in.UserType,
		Status:         "active",
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Update(orgID, id uint, in UpdateInput) (*auth.OrgUser, error) {
	u, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.UserType != "" {
		if !orgUserTypes[in.UserType] {
			return nil, apperror.Validation("user_type must be one of admin, teacher, staff, student")
		}
		u.UserType = in.UserType
	}
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateStatus(orgID, id uint, status string) (*auth.OrgUser, error) {
	switch status {
	case "active", "inactive":
	default:
		return nil, apperror.Validation("status must be active or inactive")
	}

	u, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	wasPending := u.Status == "pending"
	if err := s.repo.UpdateStatus(orgID, id, status); err != nil {
		return nil, err
	}
	u.Status = status

	if wasPending && status == "active" {
		go utils.SendAccountActivationEmail(u.Email, u.FullName)
	}
	return u, nil
}

func (s *service) ResetPassword(orgID, id uint, newPassword, adminName string) error {
	if len(newPassword) < 6 {
		return apperror.Validation("password must be at least 6 characters")
	}
	u, err := s.Get(orgID, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(orgID, id, string(hash)); err != nil {
		return err
	}

	go func() {
		_ = utils.SendPasswordResetNotification(u.Email, u.FullName, adminName, newPassword)
	}()
	return nil
}

func (s *service) Delete(orgID, id uint) error {
	u, err := s.Get(orgID, id)
	if err != nil {
		return err
	}
	if u.UserType == "superadmin" {
		return apperror.AccessDenied("the organization superadmin cannot be deleted")
	}
	return s.repo.Delete(orgID, id)
}

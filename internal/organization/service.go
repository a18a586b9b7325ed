package organization

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/feature"
	"github.com/sandeepk26/orbis-backend/utils"
)

type Service interface {
	Register(in RegisterInput) (*Organization, error)
	Get(id uint) (*Organization, error)
	List(status string) ([]Organization, error)
	Update(id uint, in UpdateInput) (*Organization, error)
	UpdateStatus(id uint, status, reason string) (*Organization, error)
	UpdateToggles(id uint, loginEnabled, registrationEnabled bool) (*Organization, error)
	UpdateSelectedFeatures(id uint, tree feature.Tree) (*Organization, error)
	Delete(id uint) error
}

type service struct {
	repo     Repository
	features feature.Service
}

func NewService(r Repository, features feature.Service) Service {
	return &service{repo: r, features: features}
}

type RegisterInput struct {
	Name        string
	OrgType     string
	Email       string
	Phone       string
	Address     string
	Description string

	AdminFullName string
	AdminEmail    string
	AdminPhone    string
	AdminPassword string
}

type UpdateInput struct {
	Name        string
	Phone       string
	Address     string
	Description string
}

func (s *service) Register(in RegisterInput) (*Organization, error) {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(in.AdminFullName) == "" {
		errs = append(errs, "admin_full_name is required")
	}
	if in.AdminEmail == "" {
		errs = append(errs, "admin_email is required")
	}
	if len(in.AdminPassword) < 6 {
		errs = append(errs, "admin_password must be at least 6 characters")
	}
	switch in.OrgType {
	case "", "college", "school", "university", "institute":
	default:
		errs = append(errs, "org_type must be one of college, school, university, institute")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs...)
	}

	exists, err := s.repo.EmailExists(strings.ToLower(in.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("an organization with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	org := &Organization{
		Name:                in.Name,
		OrgType:             in.OrgType,
		Email:               strings.ToLower(in.Email),
		Phone:               in.Phone,
		Address:             in.Address,
		Description:         in.Description,
		Status:              "pending",
		LoginEnabled:        true,
		RegistrationEnabled: true,
	}
	admin := &auth.OrgUser{
		FullName:     in.AdminFullName,
		Email:        strings.ToLower(in.AdminEmail),
		Phone:        in.AdminPhone,
		PasswordHash: string(hash),
		UserType:     "superadmin",
		Status:       "active",
	}
	if err := s.repo.CreateWithAdmin(org, admin); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) Get(id uint) (*Organization, error) {
	org, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("organization not found")
	}
	return org, err
}

func (s *service) List(status string) ([]Organization, error) {
	return s.repo.List(status)
}

func (s *service) Update(id uint, in UpdateInput) (*Organization, error) {
	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		org.Name = in.Name
	}
	if in.Phone != "" {
		org.Phone = in.Phone
	}
	if in.Address != "" {
		org.Address = in.Address
	}
	if in.Description != "" {
		org.Description = in.Description
	}
	if err := s.repo.Update(org); err != nil {
		return nil, err
	}
	return org, nil
}

// allowedStatusTransitions guards the lifecycle: a rejected tenant stays
// rejected, a deactivated one can come back.
var allowedStatusTransitions = map[string][]string{
	"pending":  {"active", "rejected"},
	"active":   {"inactive"},
	"inactive": {"active"},
}

func (s *service) UpdateStatus(id uint, status, reason string) (*Organization, error) {
	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ok := false
	for _, next := range allowedStatusTransitions[org.Status] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, apperror.Conflict("cannot move organization from " + org.Status + " to " + status)
	}

	if err := s.repo.UpdateStatus(id, status, reason); err != nil {
		return nil, err
	}
	wasPending := org.Status == "pending"
	org.Status = status
	now := time.Now()
	switch status {
	case "active":
		org.ApprovedAt = &now
	case "rejected":
		org.RejectedAt = &now
		org.RejectionReason = reason
	}

	if wasPending {
		switch status {
		case "active":
			go utils.SendOrganizationApprovalEmail(org.Email, org.Name, org.Name)
		case "rejected":
			go utils.SendOrganizationRejectionEmail(org.Email, org.Name, org.Name, reason)
		}
	}
	return org, nil
}

func (s *service) UpdateToggles(id uint, loginEnabled, registrationEnabled bool) (*Organization, error) {
	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateToggles(id, loginEnabled, registrationEnabled); err != nil {
		return nil, err
	}
	org.LoginEnabled = loginEnabled
	org.RegistrationEnabled = registrationEnabled
	return org, nil
}

func (s *service) UpdateSelectedFeatures(id uint, tree feature.Tree) (*Organization, error) {
	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.features.ValidateTree(tree); err != nil {
		return nil, err
	}
	doc, err := feature.MarshalTree(tree)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSelectedFeatures(id, doc); err != nil {
		return nil, err
	}
	org.SelectedFeatures = doc
	return org, nil
}

func (s *service) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

package session

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Service interface {
	List(orgID uint) ([]Session, error)
	Get(orgID, id uint) (*Session, error)
	Create(orgID uint, in Input) (*Session, error)
	Update(orgID, id uint, in Input) (*Session, error)
	Delete(orgID, id uint) error
}

type service struct{ repo Repository }

func NewService(r Repository) Service {
	return &service{repo: r}
}

type Input struct {
	Name          string
	StartDate     time.Time
	EndDate       time.Time
	TermStructure datatypes.JSON
	Status        string
}

func (s *service) List(orgID uint) ([]Session, error) {
	return s.repo.List(orgID)
}

func (s *service) Get(orgID, id uint) (*Session, error) {
	sess, err := s.repo.FindByID(orgID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("session not found")
	}
	return sess, err
}

func (s *service) Create(orgID uint, in Input) (*Session, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	overlap, err := s.repo.Overlapping(orgID, in.StartDate, in.EndDate, 0)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperror.Conflict("session dates overlap an existing session")
	}

	sess := &Session{
		OrganizationID: orgID,
		Name:           in.Name,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		TermStructure:  in.TermStructure,
		Status:         statusOrDefault(in.Status),
	}
	if err := s.repo.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) Update(orgID, id uint, in Input) (*Session, error) {
	sess, err := s.Get(orgID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		sess.Name = in.Name
	}
	if !in.StartDate.IsZero() {
		sess.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		sess.EndDate = in.EndDate
	}
	if !sess.EndDate.After(sess.StartDate) {
		return nil, apperror.Validation("end_date must be after start_date")
	}
	if len(in.TermStructure) > 0 {
		sess.TermStructure = in.TermStructure
	}
	if in.Status != "" {
		sess.Status = statusOrDefault(in.Status)
	}

	overlap, err := s.repo.Overlapping(orgID, sess.StartDate, sess.EndDate, id)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperror.Conflict("session dates overlap an existing session")
	}

	if err := s.repo.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) Delete(orgID, id uint) error {
	if _, err := s.Get(orgID, id); err != nil {
		return err
	}
	return s.repo.Delete(orgID, id)
}

func validate(in Input) error {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if in.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if in.EndDate.IsZero() {
		errs = append(errs, "end_date is required")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && !in.EndDate.After(in.StartDate) {
		errs = append(errs, "end_date must be after start_date")
	}
	if len(errs) > 0 {
		return apperror.Validation(errs...)
	}
	return nil
}

func statusOrDefault(status string) string {
	switch status {
	case "upcoming", "active", "completed":
		return status
	}
	return "upcoming"
}

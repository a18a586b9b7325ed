package vehicle

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type Service interface {
	List(ac middleware.AccessContext, customerID uint) ([]Vehicle, error)
	Get(ac middleware.AccessContext, id uint) (*Vehicle, error)
	Create(ac middleware.AccessContext, in Input) (*Vehicle, error)
	Update(ac middleware.AccessContext, id uint, in Input) (*Vehicle, error)
	Delete(ac middleware.AccessContext, id uint) error
}

type service struct{ repo Repository }

func NewService(r Repository) Service {
	return &service{repo: r}
}

type Input struct {
	VehicleType string
	Maker       string
	Model       string
	PlateNumber string
	Color       string
}

var vehicleTypes = map[string]bool{
	"hatchback": true,
	"sedan":     true,
	"suv":       true,
	"bike":      true,
	"scooter":   true,
	"truck":     true,
}

func isStaff(ac middleware.AccessContext) bool {
	switch ac.UserType {
	case middleware.RoleSuperAdmin, middleware.RoleAdmin, middleware.RoleStaff:
		return true
	}
	return false
}

// List returns the caller's vehicles; staff may pass another customer id.
func (s *service) List(ac middleware.AccessContext, customerID uint) ([]Vehicle, error) {
	if customerID == 0 || !isStaff(ac) {
		customerID = ac.UserID
	}
	return s.repo.ListByCustomer(customerID)
}

func (s *service) Get(ac middleware.AccessContext, id uint) (*Vehicle, error) {
	v, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, err
	}
	if v.CustomerID != ac.UserID && !isStaff(ac) {
		return nil, apperror.AccessDenied("you do not own this vehicle")
	}
	return v, nil
}

func (s *service) Create(ac middleware.AccessContext, in Input) (*Vehicle, error) {
	var errs []string
	if !vehicleTypes[in.VehicleType] {
		errs = append(errs, "vehicle_type must be one of hatchback, sedan, suv, bike, scooter, truck")
	}
	plate := strings.ToUpper(strings.TrimSpace(in.PlateNumber))
	if plate == "" {
		errs = append(errs, "plate_number is required")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs...)
	}

	exists, err := s.repo.PlateExists(ac.UserID, plate, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("you already registered a vehicle with this plate number")
	}

	v := &Vehicle{
		CustomerID:  ac.UserID,
		VehicleType: in.VehicleType,
		Maker:       in.Maker,
		Model:       in.Model,
		PlateNumber: plate,
		Color:       in.Color,
	}
	if err := s.repo.Create(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Update(ac middleware.AccessContext, id uint, in Input) (*Vehicle, error) {
	v, err := s.Get(ac, id)
	if err != nil {
		return nil, err
	}

	if in.VehicleType != "" {
		if !vehicleTypes[in.VehicleType] {
			return nil, apperror.Validation("vehicle_type must be one of hatchback, sedan, suv, bike, scooter, truck")
		}
		v.VehicleType = in.VehicleType
	}
	if in.PlateNumber != "" {
		plate := strings.ToUpper(strings.TrimSpace(in.PlateNumber))
		exists, err := s.repo.PlateExists(v.CustomerID, plate, v.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("you already registered a vehicle with this plate number")
		}
		v.PlateNumber = plate
	}
	if in.Maker != "" {
		v.Maker = in.Maker
	}
	if in.Model != "" {
		v.Model = in.Model
	}
	if in.Color != "" {
		v.Color = in.Color
	}

	if err := s.repo.Update(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Delete(ac middleware.AccessContext, id uint) error {
	if _, err := s.Get(ac, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

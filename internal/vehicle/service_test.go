package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type fakeRepo struct {
	vehicles map[uint]*Vehicle
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{vehicles: map[uint]*Vehicle{}, nextID: 1}
}

func (f *fakeRepo) ListByCustomer(customerID uint) ([]Vehicle, error) {
	var out []Vehicle
	for _, v := range f.vehicles {
		if v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(id uint) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) PlateExists(customerID uint, plate string, excludeID uint) (bool, error) {
	for _, v := range f.vehicles {
		if v.CustomerID == customerID && v.PlateNumber == plate && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(v *Vehicle) error {
	v.ID = f.nextID
	f.nextID++
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(v *Vehicle) error {
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(id uint) error {
	delete(f.vehicles, id)
	return nil
}

var (
	customerA = middleware.AccessContext{UserID: 100, UserType: middleware.RoleCustomer, AuthType: middleware.AuthTypeGlobal}
	customerB = middleware.AccessContext{UserID: 200, UserType: middleware.RoleCustomer, AuthType: middleware.AuthTypeGlobal}
	staff     = middleware.AccessContext{UserID: 5, UserType: middleware.RoleStaff, AuthType: middleware.AuthTypeGlobal}
)

func TestCreateNormalizesPlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	v, err := svc.Create(customerA, Input{VehicleType: "suv", Maker: "Tata", Model: "Nexon", PlateNumber: " ka01ab1234 "})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", v.PlateNumber)
	assert.Equal(t, uint(100), v.CustomerID)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(customerA, Input{VehicleType: "spaceship"})
	ae := apperror.From(err)
	assert.Equal(t, apperror.CodeValidationFailed, ae.Code)
	assert.Len(t, ae.Errs, 2)
}

func TestCreateDuplicatePlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(customerA, Input{VehicleType: "sedan", PlateNumber: "KA01AB1234"})
	require.NoError(t, err)

	_, err = svc.Create(customerA, Input{VehicleType: "suv", PlateNumber: "ka01ab1234"})
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// A different customer may register the same plate.
	_, err = svc.Create(customerB, Input{VehicleType: "suv", PlateNumber: "KA01AB1234"})
	assert.NoError(t, err)
}

func TestOwnershipGuard(t *testing.T) {
	svc := NewService(newFakeRepo())

	v, err := svc.Create(customerA, Input{VehicleType: "bike", PlateNumber: "KA05XY9"})
	require.NoError(t, err)

	_, err = svc.Get(customerB, v.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

	// Staff can read any vehicle.
	got, err := svc.Get(staff, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	err = svc.Delete(customerB, v.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

	require.NoError(t, svc.Delete(customerA, v.ID))
	_, err = svc.Get(customerA, v.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestUpdatePartialFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	v, err := svc.Create(customerA, Input{VehicleType: "sedan", Maker: "Honda", Model: "City", PlateNumber: "MH12AB1", Color: "white"})
	require.NoError(t, err)

	got, err := svc.Update(customerA, v.ID, Input{Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, "black", got.Color)
	assert.Equal(t, "Honda", got.Maker)
	assert.Equal(t, "MH12AB1", got.PlateNumber)

	_, err = svc.Update(customerA, v.ID, Input{VehicleType: "hovercraft"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
}

func TestListScopedToCaller(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(customerA, Input{VehicleType: "suv", PlateNumber: "P1"})
	require.NoError(t, err)
	_, err = svc.Create(customerB, Input{VehicleType: "bike", PlateNumber: "P2"})
	require.NoError(t, err)

	// Customers always see their own list, even when asking for another id.
	list, err := svc.List(customerA, 200)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(100), list[0].CustomerID)

	// Staff may list on behalf of a customer.
	list, err = svc.List(staff, 200)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(200), list[0].CustomerID)
}

package organization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/feature"
)

type fakeRepo struct {
	orgs   map[uint]*Organization
	admins map[uint]*auth.OrgUser
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orgs: map[uint]*Organization{}, admins: map[uint]*auth.OrgUser{}, nextID: 1}
}

func (f *fakeRepo) CreateWithAdmin(org *Organization, admin *auth.OrgUser) error {
	org.ID = f.nextID
	f.nextID++
	admin.OrganizationID = org.ID
	f.orgs[org.ID] = org
	f.admins[org.ID] = admin
	return nil
}

func (f *fakeRepo) FindByID(id uint) (*Organization, error) {
	if org, ok := f.orgs[id]; ok {
		return org, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) EmailExists(email string) (bool, error) {
	for _, org := range f.orgs {
		if org.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) List(status string) ([]Organization, error) {
	var out []Organization
	for _, org := range f.orgs {
		if status == "" || org.Status == status {
			out = append(out, *org)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(org *Organization) error { f.orgs[org.ID] = org; return nil }

func (f *fakeRepo) UpdateStatus(id uint, status, reason string) error {
	org, ok := f.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	org.Status = status
	if status == "rejected" {
		org.RejectionReason = reason
	}
	return nil
}

func (f *fakeRepo) UpdateToggles(id uint, loginEnabled, registrationEnabled bool) error {
	org, ok := f.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	org.LoginEnabled = loginEnabled
	org.RegistrationEnabled = registrationEnabled
	return nil
}

func (f *fakeRepo) UpdateSelectedFeatures(id uint, doc datatypes.JSON) error {
	org, ok := f.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	org.SelectedFeatures = doc
	return nil
}

func (f *fakeRepo) Delete(id uint) error {
	delete(f.orgs, id)
	return nil
}

// fakeFeatureService only supports ValidateTree; organization code touches
// nothing else.
type fakeFeatureService struct {
	feature.Service
	validateErr error
}

func (f *fakeFeatureService) ValidateTree(tree feature.Tree) error { return f.validateErr }

func registerValid() RegisterInput {
	return RegisterInput{
		Name:          "Springfield High",
		Email:         "office@springfield.edu",
		AdminFullName: "Seymour Skinner",
		AdminEmail:    "skinner@springfield.edu",
		AdminPassword: "secret123",
	}
}

func TestRegisterCreatesOrgAndAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeFeatureService{})

	org, err := svc.Register(registerValid())
	require.NoError(t, err)
	assert.Equal(t, "pending", org.Status)
	assert.True(t, org.LoginEnabled)
	assert.True(t, org.RegistrationEnabled)

	admin := repo.admins[org.ID]
	require.NotNil(t, admin)
	assert.Equal(t, org.ID, admin.OrganizationID)
	assert.Equal(t, "superadmin", admin.UserType)
	assert.Equal(t, "active", admin.Status)
	assert.Equal(t, "skinner@springfield.edu", admin.Email)
}

func TestRegisterDuplicateOrgEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeFeatureService{})

	_, err := svc.Register(registerValid())
	require.NoError(t, err)

	_, err = svc.Register(registerValid())
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeFeatureService{})

	_, err := svc.Register(RegisterInput{})
	require.Error(t, err)
	ae := apperror.From(err)
	assert.Equal(t, apperror.CodeValidationFailed, ae.Code)
	assert.Len(t, ae.Errs, 5)
}

func TestStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeFeatureService{})
	org, err := svc.Register(registerValid())
	require.NoError(t, err)

	// pending -> rejected is terminal
	_, err = svc.UpdateStatus(org.ID, "rejected", "incomplete paperwork")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(org.ID, "active", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// pending -> active -> inactive -> active
	org2, err := svc.Register(RegisterInput{
		Name:          "Shelbyville High",
		Email:         "office@shelbyville.edu",
		AdminFullName: "Admin",
		AdminEmail:    "admin@shelbyville.edu",
		AdminPassword: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(org2.ID, "active", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(org2.ID, "inactive", "")
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(org2.ID, "active", "")
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)

	// active -> rejected never allowed
	_, err = svc.UpdateStatus(org2.ID, "rejected", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestUpdateStatusUnknownOrg(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeFeatureService{})
	_, err := svc.UpdateStatus(42, "active", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestUpdateSelectedFeaturesValidates(t *testing.T) {
	repo := newFakeRepo()
	bad := &fakeFeatureService{validateErr: apperror.Validation("unknown system key")}
	svc := NewService(repo, bad)
	org, err := svc.Register(registerValid())
	require.NoError(t, err)

	_, err = svc.UpdateSelectedFeatures(org.ID, feature.Tree{"bogus": {}})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	good := NewService(repo, &fakeFeatureService{})
	tree := feature.Tree{
		"booking": {
			SystemName: "Booking",
			Enabled:    true,
			SelectedModules: []feature.Module{
				{Key: "booking_create", Name: "Create bookings"},
			},
		},
	}
	updated, err := good.UpdateSelectedFeatures(org.ID, tree)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.SelectedFeatures)
}

package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
)

type fakeRepo struct {
	users        map[uint]*auth.OrgUser
	globalEmails map[string]bool
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uint]*auth.OrgUser{}, globalEmails: map[string]bool{}, nextID: 1}
}

func (f *fakeRepo) List(orgID uint, userType, status string) ([]auth.OrgUser, error) {
	var out []auth.OrgUser
	for _, u := range f.users {
		if u.OrganizationID != orgID {
			continue
		}
		if userType != "" && u.UserType != userType {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) FindByID(orgID, id uint) (*auth.OrgUser, error) {
	if u, ok := f.users[id]; ok && u.OrganizationID == orgID {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) EmailExistsInOrg(orgID uint, email string) (bool, error) {
	for _, u := range f.users {
		if u.OrganizationID == orgID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) EmailExistsGlobal(email string) (bool, error) {
	return f.globalEmails[email], nil
}

func (f *fakeRepo) Create(u *auth.OrgUser) error {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) Update(u *auth.OrgUser) error { f.users[u.ID] = u; return nil }

func (f *fakeRepo) UpdateStatus(orgID, id uint, status string) error {
	u, err := f.FindByID(orgID, id)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func (f *fakeRepo) UpdatePassword(orgID, id uint, passwordHash string) error {
	u, err := f.FindByID(orgID, id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) Delete(orgID, id uint) error {
	if _, err := f.FindByID(orgID, id); err != nil {
		return err
	}
	delete(f.users, id)
	return nil
}

func validCreate() CreateInput {
	return CreateInput{
		FullName: "Edna Krabappel",
		Email:    "edna@springfield.edu",
		Password: "secret123",
		UserType: "teacher",
	}
}

func TestCreateActiveUser(t *testing.T) {
	svc := NewService(newFakeRepo())

	u, err := svc.Create(1, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "active", u.Status)
	assert.Equal(t, uint(1), u.OrganizationID)
	assert.NotEqual(t, "secret123", u.PasswordHash)
}

func TestCreateRejectsDuplicateAndGlobalEmails(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(1, validCreate())
	require.NoError(t, err)

	_, err = svc.Create(1, validCreate())
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// Same email in another org is fine.
	_, err = svc.Create(2, validCreate())
	require.NoError(t, err)

	// An email living in the global users table is blocked everywhere.
	repo.globalEmails["global@example.com"] = true
	in := validCreate()
	in.Email = "global@example.com"
	_, err = svc.Create(3, in)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Create(1, CreateInput{UserType: "pirate"})
	require.Error(t, err)
	ae := apperror.From(err)
	assert.Equal(t, apperror.CodeValidationFailed, ae.Code)
	assert.Len(t, ae.Errs, 4)
}

func TestUpdateStatusActivatesPendingUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	u, err := svc.Create(1, validCreate())
	require.NoError(t, err)
	u.Status = "pending"

	updated, err := svc.UpdateStatus(1, u.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)

	_, err = svc.UpdateStatus(1, u.ID, "banned")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
}

func TestTenantScoping(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	u, err := svc.Create(1, validCreate())
	require.NoError(t, err)

	// Another org cannot see, update or delete the user.
	_, err = svc.Get(2, u.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	_, err = svc.UpdateStatus(2, u.ID, "inactive")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	err = svc.Delete(2, u.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))

	require.NoError(t, svc.Delete(1, u.ID))
}

func TestDeleteProtectsOrgSuperadmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	admin := &auth.OrgUser{OrganizationID: 1, FullName: "Root", Email: "root@org.com", UserType: "superadmin", Status: "active"}
	require.NoError(t, repo.Create(admin))

	err := svc.Delete(1, admin.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestListFilters(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(1, validCreate())
	require.NoError(t, err)
	in := validCreate()
	in.Email = "student@springfield.edu"
	in.UserType = "student"
	_, err = svc.Create(1, in)
	require.NoError(t, err)

	all, err := svc.List(1, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	teachers, err := svc.List(1, "teacher", "")
	require.NoError(t, err)
	assert.Len(t, teachers, 1)

	other, err := svc.List(2, "", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

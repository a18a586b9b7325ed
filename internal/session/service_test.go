package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type fakeRepo struct {
	sessions map[uint]*Session
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: map[uint]*Session{}, nextID: 1}
}

func (f *fakeRepo) List(orgID uint) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByID(orgID, id uint) (*Session, error) {
	if s, ok := f.sessions[id]; ok && s.OrganizationID == orgID {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Overlapping(orgID uint, start, end time.Time, excludeID uint) (bool, error) {
	for _, s := range f.sessions {
		if s.OrganizationID != orgID || s.ID == excludeID {
			continue
		}
		if !s.StartDate.After(end) && !s.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(s *Session) error {
	s.ID = f.nextID
	f.nextID++
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeRepo) Update(s *Session) error { f.sessions[s.ID] = s; return nil }

func (f *fakeRepo) Delete(orgID, id uint) error {
	if _, err := f.FindByID(orgID, id); err != nil {
		return err
	}
	delete(f.sessions, id)
	return nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestCreateSession(t *testing.T) {
	svc := NewService(newFakeRepo())

	sess, err := svc.Create(1, Input{
		Name:      "2026-27",
		StartDate: day("2026-06-01"),
		EndDate:   day("2027-03-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, "upcoming", sess.Status)
	assert.Equal(t, uint(1), sess.OrganizationID)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(1, Input{Name: "bad", StartDate: day("2026-06-01"), EndDate: day("2026-01-01")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	_, err = svc.Create(1, Input{})
	require.Error(t, err)
	assert.Len(t, apperror.From(err).Errs, 3)
}

func TestSessionOverlap(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(1, Input{Name: "2026-27", StartDate: day("2026-06-01"), EndDate: day("2027-03-31")})
	require.NoError(t, err)

	// Overlapping range in the same org is rejected.
	_, err = svc.Create(1, Input{Name: "mid-year", StartDate: day("2027-01-01"), EndDate: day("2027-12-31")})
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// Same dates in another org are fine.
	_, err = svc.Create(2, Input{Name: "2026-27", StartDate: day("2026-06-01"), EndDate: day("2027-03-31")})
	require.NoError(t, err)

	// Adjacent but non-overlapping range is fine.
	next, err := svc.Create(1, Input{Name: "2027-28", StartDate: day("2027-04-01"), EndDate: day("2028-03-31")})
	require.NoError(t, err)

	// Updating into an occupied range conflicts; updating within its own
	// range does not.
	_, err = svc.Update(1, next.ID, Input{StartDate: day("2027-03-01")})
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	_, err = svc.Update(1, next.ID, Input{Name: "renamed"})
	require.NoError(t, err)
}

func TestSessionTenantScoping(t *testing.T) {
	svc := NewService(newFakeRepo())
	sess, err := svc.Create(1, Input{Name: "2026-27", StartDate: day("2026-06-01"), EndDate: day("2027-03-31")})
	require.NoError(t, err)

	_, err = svc.Get(2, sess.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	err = svc.Delete(2, sess.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

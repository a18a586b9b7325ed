package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type fakeRepo struct {
	inApp  map[uint]*InAppNotification
	tokens map[string]*FCMDeviceToken
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{inApp: map[uint]*InAppNotification{}, tokens: map[string]*FCMDeviceToken{}, nextID: 1}
}

func (f *fakeRepo) CreateInApp(_ context.Context, n *InAppNotification) error {
	n.ID = f.nextID
	f.nextID++
	f.inApp[n.ID] = n
	return nil
}

func (f *fakeRepo) ListInAppByUser(_ context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	var out []InAppNotification
	for _, n := range f.inApp {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		if len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkInAppAsRead(_ context.Context, id, userID uint) error {
	n, ok := f.inApp[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, n := range f.inApp {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) SaveDeviceToken(_ context.Context, t *FCMDeviceToken) error {
	f.tokens[t.DeviceToken] = t
	return nil
}

func (f *fakeRepo) RemoveDeviceToken(_ context.Context, userID uint, token string) error {
	if t, ok := f.tokens[token]; ok && t.UserID == userID {
		delete(f.tokens, token)
	}
	return nil
}

func (f *fakeRepo) GetUserDeviceTokens(_ context.Context, userID uint) ([]string, error) {
	var out []string
	for _, t := range f.tokens {
		if t.UserID == userID {
			out = append(out, t.DeviceToken)
		}
	}
	return out, nil
}

type fakePush struct {
	sent [][]string
}

func (f *fakePush) Send(tokens []string, _, _ string) error {
	f.sent = append(f.sent, tokens)
	return nil
}

func TestNotifyStoresAndPushes(t *testing.T) {
	repo := newFakeRepo()
	push := &fakePush{}
	svc := NewServiceWithPush(repo, push)
	ctx := context.Background()

	require.NoError(t, svc.RegisterDeviceToken(ctx, 7, "tok-1", "android"))
	require.NoError(t, svc.Notify(ctx, 7, nil, "Booking confirmed", "Your booking #1 is confirmed.", "booking"))

	items, err := svc.List(ctx, 7, false, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Booking confirmed", items[0].Title)
	assert.False(t, items[0].IsRead)

	require.Len(t, push.sent, 1)
	assert.Equal(t, []string{"tok-1"}, push.sent[0])
}

func TestMarkAsRead(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithPush(repo, &fakePush{})
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, 7, nil, "Hello", "World", "system"))

	count, err := svc.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.MarkAsRead(ctx, 1, 7))
	count, err = svc.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Another user cannot read-receipt someone else's notification.
	err = svc.MarkAsRead(ctx, 1, 999)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestDeviceTokenLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewServiceWithPush(repo, &fakePush{})
	ctx := context.Background()

	err := svc.RegisterDeviceToken(ctx, 7, "", "android")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	require.NoError(t, svc.RegisterDeviceToken(ctx, 7, "tok-1", "android"))
	require.NoError(t, svc.RegisterDeviceToken(ctx, 7, "tok-2", "web"))

	tokens, err := repo.GetUserDeviceTokens(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	require.NoError(t, svc.RemoveDeviceToken(ctx, 7, "tok-1"))
	tokens, err = repo.GetUserDeviceTokens(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, tokens)
}

func TestDescribeBookingEvents(t *testing.T) {
	title, msg := describe(bookingEvent{BookingID: 42, ToStatus: "completed"})
	assert.Equal(t, "Wash completed", title)
	assert.Contains(t, msg, "#42")

	title, _ = describe(bookingEvent{BookingID: 42, ToStatus: "unknown"})
	assert.Empty(t, title)
}

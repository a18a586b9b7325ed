package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

func TestLifecycleGraph(t *testing.T) {
	admin := Actor{UserType: "admin"}

	valid := []struct{ from, to string }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusAllocated},
		{StatusConfirmed, StatusCancelled},
		{StatusAllocated, StatusInProgress},
		{StatusAllocated, StatusCancelled},
		{StatusInProgress, StatusCompleted},
	}
	for _, tc := range valid {
		assert.NoError(t, CanTransition(admin, tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	invalid := []struct{ from, to string }{
		{StatusPending, StatusAllocated},
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusInProgress},
		{StatusInProgress, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusConfirmed},
	}
	for _, tc := range invalid {
		err := CanTransition(admin, tc.from, tc.to)
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "%s -> %s", tc.from, tc.to)
	}
}

func TestCustomerTransitions(t *testing.T) {
	owner := Actor{UserType: "customer", IsCustomer: true}
	stranger := Actor{UserType: "customer"}

	// Owner can cancel before work starts.
	assert.NoError(t, CanTransition(owner, StatusPending, StatusCancelled))
	assert.NoError(t, CanTransition(owner, StatusConfirmed, StatusCancelled))

	// But not once a washer is on the job.
	err := CanTransition(owner, StatusAllocated, StatusCancelled)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	// And never anything but cancel.
	err = CanTransition(owner, StatusPending, StatusConfirmed)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

	// Someone else's booking is off limits entirely.
	err = CanTransition(stranger, StatusPending, StatusCancelled)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestWasherTransitions(t *testing.T) {
	assigned := Actor{UserType: "washer", IsWasher: true}
	other := Actor{UserType: "washer"}

	assert.NoError(t, CanTransition(assigned, StatusAllocated, StatusInProgress))
	assert.NoError(t, CanTransition(assigned, StatusInProgress, StatusCompleted))

	// A washer cannot confirm or cancel.
	err := CanTransition(assigned, StatusPending, StatusConfirmed)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
	err = CanTransition(assigned, StatusAllocated, StatusCancelled)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

	// Nor touch a job assigned to someone else.
	err = CanTransition(other, StatusAllocated, StatusInProgress)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestUnknownRoleDenied(t *testing.T) {
	err := CanTransition(Actor{UserType: "student"}, StatusPending, StatusConfirmed)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestVerifySignature(t *testing.T) {
	secret := "test-secret"
	orderID := "order_123"
	paymentID := "pay_456"

	good := computeTestSignature(secret, orderID, paymentID)
	assert.True(t, VerifySignature(secret, orderID, paymentID, good))
	assert.False(t, VerifySignature(secret, orderID, paymentID, "bad-signature"))
	assert.False(t, VerifySignature("other-secret", orderID, paymentID, good))
	assert.False(t, VerifySignature(secret, orderID, "pay_999", good))
}

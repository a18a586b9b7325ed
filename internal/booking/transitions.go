package booking

import (
	"fmt"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

// graph is the booking lifecycle. Terminal states have no outgoing edges.
var graph = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusAllocated, StatusCancelled},
	StatusAllocated:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func edgeExists(from, to string) bool {
	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Actor describes who is attempting a transition relative to the booking.
type Actor struct {
	UserType   string
	IsCustomer bool // the booking's own customer
	IsWasher   bool // the booking's assigned washer
}

// CanTransition enforces the role allow-lists on top of the lifecycle graph:
// staff roles may walk any edge, a customer may only cancel their own booking
// before work starts, a washer may only advance a job assigned to them.
func CanTransition(a Actor, from, to string) error {
	if !edgeExists(from, to) {
		return apperror.Conflict(fmt.Sprintf("cannot move booking from %s to %s", from, to))
	}

	switch a.UserType {
	case middleware.RoleSuperAdmin, middleware.RoleAdmin, middleware.RoleStaff:
		return nil

	case middleware.RoleCustomer:
		if !a.IsCustomer {
			return apperror.AccessDenied("you do not own this booking")
		}
		if to != StatusCancelled {
			return apperror.AccessDenied("customers may only cancel bookings")
		}
		if from != StatusPending && from != StatusConfirmed {
			return apperror.Conflict("booking can no longer be cancelled")
		}
		return nil

	case middleware.RoleWasher:
		if !a.IsWasher {
			return apperror.AccessDenied("this booking is not assigned to you")
		}
		if (from == StatusAllocated && to == StatusInProgress) ||
			(from == StatusInProgress && to == StatusCompleted) {
			return nil
		}
		return apperror.AccessDenied("washers may only start or complete their assigned jobs")
	}

	return apperror.AccessDenied("you are not allowed to change booking status")
}

// Package policy decides who may create, update or delete activities and customers.
package policy

import (
	"errors"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"
)

type Resource string

const (
	Activity Resource = "activity"
	Customer Resource = "customer"
)

type Action string

const (
	Update Action = "update"
	Delete Action = "delete"
)

const (
	ActivityEditWindow   = 24.0 // hours
	CustomerDeleteWindow = 48.0 // hours
)

// Denial reasons. Each one is wrapped in an apperr Forbidden error.
var (
	ErrNotOwner          = errors.New("Vous ne pouvez modifier que vos propres activités")
	ErrEditWindowExpired = errors.New("Vous ne pouvez plus modifier cette activité (délai de 24h dépassé)")
	ErrDeleteExpired     = errors.New("Vous ne pouvez supprimer que les clients créés dans les 48 dernières heures")
	ErrAdminOnly         = errors.New("Accès refusé. Vous n'avez pas les permissions nécessaires.")
	ErrRoleDenied        = errors.New("Vous n'avez pas les permissions pour effectuer cette action")
)

// Subject is the resource being mutated.
type Subject struct {
	Resource  Resource
	OwnerID   int
	CreatedAt time.Time
}

// Actor is the authenticated caller.
type Actor struct {
	ID   int
	Role string
}

// CanMutate returns nil when actor may perform action on subject at time now.
func CanMutate(actor Actor, action Action, subject Subject, now time.Time) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleManager {
		return apperr.Forbidden(ErrRoleDenied)
	}

	elapsed := timeutil.HoursSince(subject.CreatedAt, now)

	switch subject.Resource {
	case Activity:
		if action == Delete {
			return apperr.Forbidden(ErrAdminOnly)
		}
		if subject.OwnerID != actor.ID {
			return apperr.Forbidden(ErrNotOwner)
		}
		if elapsed > ActivityEditWindow {
			return apperr.Forbidden(ErrEditWindowExpired)
		}
		return nil
	case Customer:
		if action == Update {
			return nil
		}
		if elapsed > CustomerDeleteWindow {
			return apperr.Forbidden(ErrDeleteExpired)
		}
		return nil
	}
	return apperr.Forbidden(ErrRoleDenied)
}

// CanCreate returns nil when role may create a resource. Activities need ADMIN or
// MANAGER; customers only need an authenticated caller.
func CanCreate(role string, resource Resource) error {
	if resource == Customer {
		return nil
	}
	if role == models.RoleAdmin || role == models.RoleManager {
		return nil
	}
	return apperr.Forbidden(ErrRoleDenied)
}

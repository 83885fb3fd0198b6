// Package policy answers "may this actor perform this action on this
// resource" as a pure function over an explicit table. No hierarchy is
// implied between roles; each cell is spelled out.
package policy

import "reviewhub/internal/api/models"

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Kind classifies the resource classes the API exposes.
type Kind int

const (
	// KindCatalog covers categories, genres and titles: world-readable,
	// admin-writable.
	KindCatalog Kind = iota
	// KindReview and KindComment are world-readable, created by any
	// authenticated user, and mutable by the author or moderation staff.
	KindReview
	KindComment
	// KindUserAdmin is the /users/ collection.
	KindUserAdmin
	// KindSelf is the /users/me/ alias.
	KindSelf
)

// Resource is the target of a check. OwnerID is the authoring user's ID
// for reviews and comments, empty otherwise.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Allowed reports whether actor may perform action on res. A nil actor
// is an anonymous request; callers translate a denial into 401 for
// anonymous actors and 403 for authenticated ones.
func Allowed(actor *models.User, action Action, res Resource) bool {
	switch res.Kind {
	case KindCatalog:
		if action == ActionRead {
			return true
		}
		return actor != nil && actor.IsAdmin()

	case KindReview, KindComment:
		switch action {
		case ActionRead:
			return true
		case ActionCreate:
			return actor != nil
		case ActionUpdate, ActionDelete:
			if actor == nil {
				return false
			}
			return actor.ID == res.OwnerID || actor.IsModerator() || actor.IsAdmin()
		}
		return false

	case KindUserAdmin:
		return actor != nil && actor.IsAdmin()

	case KindSelf:
		// create does not exist for the alias; the record always does
		return actor != nil && action != ActionCreate

	default:
		return false
	}
}

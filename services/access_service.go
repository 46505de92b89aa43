// services/access_service.go
//
// Centralized access scoping. Every permission decision in the API goes
// through these functions; route handlers only resolve records (404 first)
// and map a false answer to 403.
package services

import "github.com/mihir-M-marathe/CalTrail/models"

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   uint
	Role models.Role
}

func ActorFor(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// CanAccessUserData reports whether the actor may read the target user's
// records (profile, meal entries, nutrition summaries, comments).
// Rule order: admin, self, assigned nutritionist.
func CanAccessUserData(actor Actor, target *models.User) bool {
	if target == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.ID == target.ID {
		return true
	}
	return actor.Role == models.RoleNutritionist &&
		target.AssignedNutritionistID != nil &&
		*target.AssignedNutritionistID == actor.ID
}

// CanAccessMealEntry expects entry.User to be loaded; the nutritionist branch
// needs the owner's assignment.
func CanAccessMealEntry(actor Actor, entry *models.MealEntry) bool {
	if entry == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.ID == entry.UserID {
		return true
	}
	return actor.Role == models.RoleNutritionist &&
		entry.User.AssignedNutritionistID != nil &&
		*entry.User.AssignedNutritionistID == actor.ID
}

// CanAuthorComment reports whether the actor may comment on the entry.
// Unlike reads, the entry owner gets no say here: commenting is reserved for
// the owner's assigned nutritionist and admins.
func CanAuthorComment(actor Actor, entry *models.MealEntry) bool {
	if entry == nil {
		return false
	}
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleNutritionist:
		return entry.User.AssignedNutritionistID != nil &&
			*entry.User.AssignedNutritionistID == actor.ID
	default:
		return false
	}
}

// CanMutateRecord is strict ownership: read access never implies write
// access. An assigned nutritionist can see a user's meal entries but cannot
// edit or delete them; only the owner (or author, for comments) and admins
// can.
func CanMutateRecord(actor Actor, ownerID uint) bool {
	return actor.Role == models.RoleAdmin || actor.ID == ownerID
}

// Role-gated actions independent of ownership.

func CanManageFoods(actor Actor) bool {
	return actor.Role == models.RoleNutritionist || actor.Role == models.RoleAdmin
}

func CanDeleteFood(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanDeleteUser(actor Actor) bool { return actor.Role == models.RoleAdmin }

func CanAssignNutritionist(actor Actor) bool { return actor.Role == models.RoleAdmin }

// CanListUsers gates the user directory. Nutritionists get a listing scoped
// to their assigned users plus themselves (the scoping itself lives in
// UserService.List); admins see everyone.
func CanListUsers(actor Actor) bool {
	return actor.Role == models.RoleNutritionist || actor.Role == models.RoleAdmin
}

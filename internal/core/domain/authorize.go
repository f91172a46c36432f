package domain

// ErrNotOwner is returned when a caller tries to modify another user's resources.
var ErrNotOwner = newError(ErrForbidden, "access forbidden: resource belongs to another user")

// Authorize allows a mutation only when the caller owns the resource.
// Comparison is exact; an empty caller never matches.
func Authorize(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrNotOwner
	}
	return nil
}

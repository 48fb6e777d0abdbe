package domain

// Identity is the caller as seen by a request: an optional user id and a role.
// Anonymous visitors have a nil UserID and RoleUser.
type Identity struct {
	UserID *int64
	Role   Role
}

func Anonymous() Identity {
	return Identity{Role: RoleUser}
}

func NewIdentity(userID int64, role Role) Identity {
	id := userID
	return Identity{UserID: &id, Role: role}
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != nil
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

// UserIDOrNil returns a copy of the user id pointer so callers can store it
// without aliasing the identity.
func (i Identity) UserIDOrNil() *int64 {
	if i.UserID == nil {
		return nil
	}
	v := *i.UserID
	return &v
}

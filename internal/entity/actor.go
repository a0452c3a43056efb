package entity

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller extracted from the JWT claims.
type Actor struct {
	AccountID int
	Role      string
}

func (a Actor) Admin() bool { return a.Role == RoleAdmin }

// CanAccess is the single authorization predicate: an actor may touch an
// order when they own it or when they are an admin.
func (a Actor) CanAccess(ownerAccountID int) bool {
	return a.Admin() || a.AccountID == ownerAccountID
}

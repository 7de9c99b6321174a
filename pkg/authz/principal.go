package authz

// Principal is the authenticated actor attempting an operation. Identity is
// owned by the external identity system; the core only reads it.
type Principal struct {
	ID            string
	Authenticated bool
}

// Anonymous is the explicit marker for an unauthenticated caller.
var Anonymous = Principal{}

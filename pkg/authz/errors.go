package authz

import "net/http"

// Kind is the closed set of authorization failure conditions. These are
// authorization facts, never transient infrastructure faults: none are
// retryable, and storage errors pass through the engine untouched.
type Kind int

const (
	// Unauthenticated: no valid principal in the calling context.
	Unauthenticated Kind = iota + 1
	// StoreNotFound: domain key does not match any store.
	StoreNotFound
	// NotStaffMember: principal authenticated but not bound to the store.
	NotStaffMember
	// PermissionDenied: bound to the store but lacks the required permission.
	PermissionDenied
)

// Error is the typed denial returned by the engine. Callers translate it to
// their transport (GraphQL extensions, HTTP status) via Code and HTTPStatus.
type Error struct {
	Kind       Kind
	Permission string // the permission the check was for, when relevant
}

func (e *Error) Error() string {
	switch e.Kind {
	case Unauthenticated:
		return "unauthenticated"
	case StoreNotFound:
		return "store not found"
	case NotStaffMember:
		return "not a staff member of this store"
	case PermissionDenied:
		return "permission denied: " + e.Permission
	}
	return "authorization failed"
}

// Code returns the stable machine-readable code for the denial.
func (e *Error) Code() string {
	switch e.Kind {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case StoreNotFound:
		return "NOT_FOUND"
	case NotStaffMember:
		return "NOT_STAFF_MEMBER"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	}
	return "FORBIDDEN"
}

// HTTPStatus returns the HTTP-like status callers map the denial to.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case StoreNotFound:
		return http.StatusNotFound
	}
	return http.StatusForbidden
}

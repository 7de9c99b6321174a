package staff

// Member binds a principal to a store with a set of granted permissions.
// At most one Member exists per (principal, store) pair.
type Member struct {
	ID          string   `json:"id"`
	StoreID     string   `json:"store_id"`
	PrincipalID string   `json:"principal_id"`
	IsOwner     bool     `json:"is_owner"`
	Permissions []string `json:"permissions"` // granted codenames
}

// Has reports whether the member holds the permission. Owners hold every
// permission regardless of explicit grants.
func (m Member) Has(code string) bool {
	if m.IsOwner {
		return true
	}
	for _, c := range m.Permissions {
		if c == code {
			return true
		}
	}
	return false
}

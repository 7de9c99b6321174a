package stores

// Store represents one tenant boundary. All staff bindings and permission
// checks are scoped to exactly one Store.
type Store struct {
	ID      string // uuid
	Domain  string // external domain key, globally unique (acme.myshop.example)
	Name    string
	OwnerID string // principal id of the owning user
}

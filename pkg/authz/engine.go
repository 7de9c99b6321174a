// pkg/authz/engine.go
package authz

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"storeauth/pkg/staff"
	"storeauth/pkg/stores"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authz_decisions_total",
	Help: "Authorization decisions by outcome.",
}, []string{"outcome"})

// Engine is the single decision function every mutation and query calls
// before doing its own work. It is a pure read over the store directory and
// the staff provider; nothing is mutated by a check.
type Engine struct {
	dir   stores.Directory
	staff staff.Provider
	log   *zap.SugaredLogger
}

func NewEngine(dir stores.Directory, prov staff.Provider, log *zap.SugaredLogger) *Engine {
	return &Engine{dir: dir, staff: prov, log: log}
}

// Authorize verifies, in this fixed order, that the principal is
// authenticated, that the domain key resolves to a store, that the principal
// is a staff member of that store, and that the member holds the required
// permission. The order is a contract: an unauthenticated caller must never
// learn whether a store exists, so the authentication check always wins.
//
// On success both resolved handles are returned so the caller can proceed
// under that authorization. Storage faults propagate unchanged.
func (e *Engine) Authorize(ctx context.Context, p Principal, domain, requiredPermission string) (stores.Store, staff.Member, error) {
	if !p.Authenticated || p.ID == "" {
		return e.deny(&Error{Kind: Unauthenticated})
	}

	store, err := e.dir.ResolveStoreByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return e.deny(&Error{Kind: StoreNotFound})
		}
		return stores.Store{}, staff.Member{}, err
	}

	member, err := e.staff.ResolveMember(ctx, p.ID, store.ID)
	if err != nil {
		if errors.Is(err, staff.ErrNotStaff) {
			return e.deny(&Error{Kind: NotStaffMember})
		}
		return stores.Store{}, staff.Member{}, err
	}

	if !member.Has(requiredPermission) {
		e.log.Debugw("permission denied",
			"principal", p.ID, "store", store.ID, "permission", requiredPermission)
		return e.deny(&Error{Kind: PermissionDenied, Permission: requiredPermission})
	}

	decisions.WithLabelValues("allow").Inc()
	return store, member, nil
}

func (e *Engine) deny(aerr *Error) (stores.Store, staff.Member, error) {
	decisions.WithLabelValues(aerr.Code()).Inc()
	return stores.Store{}, staff.Member{}, aerr
}

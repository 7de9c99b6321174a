package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storeauth/pkg/authz"
	"storeauth/pkg/middleware"
	"storeauth/pkg/permissions"
	"storeauth/pkg/problems"
	"storeauth/pkg/staff"
)

// App bundles the HTTP surface dependencies. Everything is injected; no
// package-level state.
type App struct {
	Engine  *authz.Engine
	Staff   staff.Provider
	Catalog permissions.Catalog
	Log     *zap.SugaredLogger
}

// RegisterHTTP mounts the authorization check and staff management routes.
func (a *App) RegisterHTTP(r chi.Router) {
	r.Post("/v1/authz/check", a.handleCheck)
	r.Get("/v1/stores/current", a.handleCurrentStore)
	r.Get("/v1/stores/{domain}/staff", a.handleListStaff)
	r.Post("/v1/stores/{domain}/staff/{principal}/permissions", a.handleGrant)
	r.Delete("/v1/stores/{domain}/staff/{principal}/permissions/{code}", a.handleRevoke)
}

// handleCheck runs one authorization decision for the request principal and
// reports the outcome with the uniform code/status mapping. It gives non-Go
// callers the same consolidated check in-process callers get from the engine.
func (a *App) handleCheck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Domain     string `json:"domain"`
		Permission string `json:"permission"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		problems.Write(w, http.StatusBadRequest, "invalid-body", "Invalid request body", err.Error(), nil)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	store, member, err := a.Engine.Authorize(r.Context(), p, body.Domain, body.Permission)
	if err != nil {
		a.writeAuthzError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"allowed":         true,
		"store_id":        store.ID,
		"staff_member_id": member.ID,
	})
}

func (a *App) handleCurrentStore(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	store, member, err := a.Engine.Authorize(r.Context(), p, r.URL.Query().Get("domain"), "stores.update_settings")
	if err != nil {
		a.writeAuthzError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       store.ID,
		"domain":   store.Domain,
		"name":     store.Name,
		"owner_id": store.OwnerID,
		"is_owner": member.IsOwner,
	})
}

func (a *App) handleListStaff(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	store, _, err := a.Engine.Authorize(r.Context(), p, chi.URLParam(r, "domain"), "staff.manage")
	if err != nil {
		a.writeAuthzError(w, err)
		return
	}
	members, err := a.Staff.ListMembers(r.Context(), store.ID)
	if err != nil {
		a.Log.Errorw("list staff", "err", err)
		problems.Write(w, http.StatusInternalServerError, "internal", "Internal error", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": members})
}

func (a *App) handleGrant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		problems.Write(w, http.StatusBadRequest, "invalid-body", "Invalid request body", err.Error(), nil)
		return
	}
	a.mutateGrant(w, r, body.Code, a.Staff.Grant)
}

func (a *App) handleRevoke(w http.ResponseWriter, r *http.Request) {
	a.mutateGrant(w, r, chi.URLParam(r, "code"), a.Staff.Revoke)
}

func (a *App) mutateGrant(w http.ResponseWriter, r *http.Request, code string, op func(ctx context.Context, memberID, code string) error) {
	p := middleware.PrincipalFrom(r.Context())
	store, _, err := a.Engine.Authorize(r.Context(), p, chi.URLParam(r, "domain"), "staff.manage")
	if err != nil {
		a.writeAuthzError(w, err)
		return
	}
	if !a.Catalog.Contains(code) {
		problems.Write(w, http.StatusBadRequest, "unknown-permission", "Unknown permission",
			"code is not in the permission catalog", map[string]any{"code": code})
		return
	}
	target, err := a.Staff.ResolveMember(r.Context(), chi.URLParam(r, "principal"), store.ID)
	if err != nil {
		if errors.Is(err, staff.ErrNotStaff) {
			problems.Write(w, http.StatusNotFound, "staff-not-found", "Staff member not found", "", nil)
			return
		}
		a.Log.Errorw("resolve target staff", "err", err)
		problems.Write(w, http.StatusInternalServerError, "internal", "Internal error", "", nil)
		return
	}
	if err := op(r.Context(), target.ID, code); err != nil {
		a.Log.Errorw("grant mutation", "err", err)
		problems.Write(w, http.StatusInternalServerError, "internal", "Internal error", "", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthzError translates engine denials into the stable code/status table;
// anything else is an infrastructure fault and fails loudly as a 500.
func (a *App) writeAuthzError(w http.ResponseWriter, err error) {
	var aerr *authz.Error
	if errors.As(err, &aerr) {
		extra := map[string]any{"code": aerr.Code()}
		if aerr.Permission != "" {
			extra["permission"] = aerr.Permission
		}
		problems.Write(w, aerr.HTTPStatus(), slugFor(aerr), titleFor(aerr), "", extra)
		return
	}
	a.Log.Errorw("authorize", "err", err)
	problems.Write(w, http.StatusInternalServerError, "internal", "Internal error", "", nil)
}

func slugFor(e *authz.Error) string {
	switch e.Kind {
	case authz.Unauthenticated:
		return "unauthenticated"
	case authz.StoreNotFound:
		return "store-not-found"
	case authz.NotStaffMember:
		return "not-staff-member"
	}
	return "permission-denied"
}

func titleFor(e *authz.Error) string {
	switch e.Kind {
	case authz.Unauthenticated:
		return "Authentication required"
	case authz.StoreNotFound:
		return "Store not found"
	case authz.NotStaffMember:
		return "Not a staff member"
	}
	return "Permission denied"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

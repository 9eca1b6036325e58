package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/savionray/content-lab/pkg/auth"
	"github.com/savionray/content-lab/pkg/config"
	"github.com/savionray/content-lab/pkg/httputil"
	"github.com/savionray/content-lab/pkg/pipeline"
)

// registerRoutes wires the content API routes behind their per-route guards.
// Handlers here are intentionally thin; the CRUD layers live elsewhere and
// everything security-relevant happens in the pipeline.
func registerRoutes(router *mux.Router, orch *pipeline.Orchestrator, cfg *config.Config) {
	api := router.PathPrefix("/api/v1").Subrouter()

	readGuard := pipeline.Guard{
		AllowedMethods: []string{http.MethodGet},
		AllowedOrigins: cfg.Security.AllowedOrigins,
		MaxRequestSize: cfg.Security.MaxRequestSize,
		RequireOrg:     true,
	}
	writeGuard := pipeline.Guard{
		AllowedMethods: []string{http.MethodPost, http.MethodPut},
		AllowedOrigins: cfg.Security.AllowedOrigins,
		MaxRequestSize: cfg.Security.MaxRequestSize,
		RequireOrg:     true,
		RequiredRoles:  []auth.OrgRole{auth.OrgRoleOwner, auth.OrgRoleAdmin, auth.OrgRoleMember},
	}
	adminGuard := pipeline.Guard{
		AllowedMethods: []string{http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedOrigins: cfg.Security.AllowedOrigins,
		MaxRequestSize: cfg.Security.MaxRequestSize,
		RequireOrg:     true,
		RequiredRoles:  []auth.OrgRole{auth.OrgRoleOwner, auth.OrgRoleAdmin},
	}

	api.Handle("/ideas", orch.SecureFunc(readGuard, listStub("ideas"))).Methods(http.MethodGet)
	api.Handle("/ideas", orch.SecureFunc(writeGuard, acceptStub("idea"))).Methods(http.MethodPost)
	api.Handle("/drafts", orch.SecureFunc(readGuard, listStub("drafts"))).Methods(http.MethodGet)
	api.Handle("/drafts", orch.SecureFunc(writeGuard, acceptStub("draft"))).Methods(http.MethodPost)
	api.Handle("/approvals", orch.SecureFunc(adminGuard, acceptStub("approval"))).Methods(http.MethodPost)
	api.Handle("/delivery-plans", orch.SecureFunc(readGuard, listStub("delivery-plans"))).Methods(http.MethodGet)
	api.Handle("/billing", orch.SecureFunc(adminGuard, acceptStub("billing-change"))).Methods(http.MethodPost, http.MethodPut)

	api.Handle("/me", orch.SecureFunc(pipeline.Guard{
		AllowedMethods: []string{http.MethodGet},
		AllowedOrigins: cfg.Security.AllowedOrigins,
	}, whoami)).Methods(http.MethodGet)
}

func listStub(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := pipeline.GetSecurityContext(r)
		httputil.WriteSuccess(w, map[string]interface{}{
			"resource":        resource,
			"organization_id": sc.OrganizationID,
			"items":           []interface{}{},
		})
	}
}

func acceptStub(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
			"resource": resource,
			"status":   "accepted",
		})
	}
}

func whoami(w http.ResponseWriter, r *http.Request) {
	sc := pipeline.GetSecurityContext(r)
	httputil.WriteSuccess(w, sc)
}

// internal/handlers/router.go
package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/henrylimaSaas/ArchFlow-master/internal/auth"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers/clients"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers/projects"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers/statuses"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers/tasks"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers/users"
	"github.com/henrylimaSaas/ArchFlow-master/internal/middleware"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

// RegisterRoutes wires the full mutation surface. Authorization happens
// inside each handler against the permission table; this file only decides
// which routes require a principal at all.
func RegisterRoutes(mux *chi.Mux, store repo.Store, tokens *auth.Tokens) {
	st := statuses.New(store)
	tk := tasks.New(store)
	cl := clients.New(store)
	pr := projects.New(store)
	us := users.New(store)

	mux.Post("/auth/signup", auth.SignupHandler(store, tokens))
	mux.Post("/auth/login", auth.LoginHandler(store, tokens))

	mux.Group(func(g chi.Router) {
		// Apply principal resolution to the whole group ONCE
		g.Use(middleware.RequirePrincipal(tokens, store))

		g.Get("/auth/me", us.Me)

		g.Route("/workflow-statuses", func(sr chi.Router) {
			sr.Post("/", st.Create)
			sr.Get("/", st.List)
			sr.Put("/reorder", st.Reorder)
			sr.Put("/{statusID}", st.Update)
			sr.Delete("/{statusID}", st.Delete)
		})

		g.Get("/board", tk.Board)
		g.Route("/tasks", func(sr chi.Router) {
			sr.Post("/", tk.Create)
			sr.Get("/", tk.List)
			sr.Get("/{taskID}", tk.GetByID)
			sr.Put("/{taskID}", tk.Update)
			sr.Put("/{taskID}/move", tk.Move)
			sr.Delete("/{taskID}", tk.Delete)
		})

		g.Route("/clients", func(sr chi.Router) {
			sr.Post("/", cl.Create)
			sr.Get("/", cl.List)
			sr.Get("/{clientID}", cl.GetByID)
			sr.Put("/{clientID}", cl.Update)
			sr.Delete("/{clientID}", cl.Delete)
		})

		g.Route("/projects", func(sr chi.Router) {
			sr.Post("/", pr.Create)
			sr.Get("/", pr.List)
			sr.Get("/{projectID}", pr.GetByID)
			sr.Put("/{projectID}", pr.Update)
			sr.Delete("/{projectID}", pr.Delete)
		})

		g.Route("/users", func(sr chi.Router) {
			sr.Get("/", us.List)
			sr.Put("/{userID}/role", us.ChangeRole)
			sr.Delete("/{userID}", us.Delete)
		})
	})
}

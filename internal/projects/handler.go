package projects

import (
	"net/http"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/pkg"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, authenticated mux.MiddlewareFunc) {
	projectsRouter := router.PathPrefix("/api/projects").Subrouter()
	projectsRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("projects-list")
	projectsRouter.Handle("", authenticated(http.HandlerFunc(handler.handleCreate))).Methods("POST", "OPTIONS").Name("projects-create")
	projectsRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("projects-get")
	projectsRouter.Handle("/{id}", authenticated(http.HandlerFunc(handler.handleUpdate))).Methods("PUT", "OPTIONS").Name("projects-update")
	projectsRouter.Handle("/{id}", authenticated(http.HandlerFunc(handler.handleDelete))).Methods("DELETE", "OPTIONS").Name("projects-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	projects, err := handler.service.List(r.Context())
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteList(w, projects)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	project, err := handler.service.Get(r.Context(), id)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusOK, project)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	var in CreateInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	project, err := handler.service.Create(r.Context(), in, caller)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusCreated, project)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	var in UpdateInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	project, err := handler.service.Update(r.Context(), id, in, caller)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusOK, project)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	if err := handler.service.Delete(r.Context(), id, caller); err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteMessage(w, http.StatusOK, "Project deleted successfully")
}

package contact

import (
	"net/http"

	"github.com/2beens/portfolioapi/internal/apierr"
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

// SetupRoutes registers the contact routes; reading and managing messages
// goes through both the authenticated and the privileged gate
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	authenticated mux.MiddlewareFunc,
	privileged mux.MiddlewareFunc,
	createRateLimit mux.MiddlewareFunc,
) {
	admin := func(h http.HandlerFunc) http.Handler {
		return authenticated(privileged(h))
	}

	contactRouter := router.PathPrefix("/api/contact").Subrouter()
	contactRouter.Handle("", createRateLimit(http.HandlerFunc(handler.handleCreate))).Methods("POST", "OPTIONS").Name("contact-create")
	contactRouter.Handle("", admin(handler.handleList)).Methods("GET", "OPTIONS").Name("contact-list")
	contactRouter.Handle("/{id}/read", admin(handler.handleMarkRead)).Methods("PUT", "OPTIONS").Name("contact-mark-read")
	contactRouter.Handle("/{id}", admin(handler.handleDelete)).Methods("DELETE", "OPTIONS").Name("contact-delete")
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	message, err := handler.service.Create(r.Context(), in)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteMessageAndData(w, http.StatusCreated, "Message sent successfully", message)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	messages, err := handler.service.List(r.Context())
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteList(w, messages)
}

func (handler *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	message, err := handler.service.MarkRead(r.Context(), id)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusOK, message)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	if err := handler.service.Delete(r.Context(), id); err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteMessage(w, http.StatusOK, "Message deleted successfully")
}

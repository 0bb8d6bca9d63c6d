package users

import (
	"net/http"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/pkg"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	authenticated mux.MiddlewareFunc,
	loginRateLimit mux.MiddlewareFunc,
) {
	usersRouter := router.PathPrefix("/api/users").Subrouter()
	usersRouter.HandleFunc("/register", handler.handleRegister).Methods("POST", "OPTIONS").Name("users-register")
	usersRouter.Handle("/login", loginRateLimit(http.HandlerFunc(handler.handleLogin))).Methods("POST", "OPTIONS").Name("users-login")
	usersRouter.Handle("/me", authenticated(http.HandlerFunc(handler.handleMe))).Methods("GET", "OPTIONS").Name("users-me")
	usersRouter.Handle("/logout", authenticated(http.HandlerFunc(handler.handleLogout))).Methods("POST", "OPTIONS").Name("users-logout")
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	user, token, err := handler.service.Register(r.Context(), in)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	pkg.WriteData(w, http.StatusCreated, AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	user, token, err := handler.service.Login(r.Context(), in)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	log.Tracef("login success: %s", user.ID)
	pkg.WriteData(w, http.StatusOK, AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	user, err := handler.service.Me(r.Context(), identity.ID)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	pkg.WriteData(w, http.StatusOK, user)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	if err := handler.service.Logout(r.Context(), claims); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	pkg.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

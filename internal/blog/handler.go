package blog

import (
	"net/http"
	"strconv"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/pkg"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/gorilla/mux"
)

type PostsPageResponse struct {
	Success bool    `json:"success"`
	Count   int     `json:"count"`
	Total   int     `json:"total"`
	Data    []*Post `json:"data"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, authenticated mux.MiddlewareFunc) {
	blogRouter := router.PathPrefix("/api/blog").Subrouter()
	blogRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("blog-list")
	blogRouter.Handle("", authenticated(http.HandlerFunc(handler.handleCreate))).Methods("POST", "OPTIONS").Name("blog-create")
	blogRouter.HandleFunc("/page/{page}/size/{size}", handler.handleGetPage).Methods("GET", "OPTIONS").Name("blog-page")
	blogRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("blog-get")
	blogRouter.Handle("/{id}", authenticated(http.HandlerFunc(handler.handleUpdate))).Methods("PUT", "OPTIONS").Name("blog-update")
	blogRouter.Handle("/{id}", authenticated(http.HandlerFunc(handler.handleDelete))).Methods("DELETE", "OPTIONS").Name("blog-delete")
	blogRouter.HandleFunc("/{postId}/comments", handler.handleListComments).Methods("GET", "OPTIONS").Name("blog-comments-list")
	blogRouter.Handle("/{postId}/comments", authenticated(http.HandlerFunc(handler.handleCreateComment))).Methods("POST", "OPTIONS").Name("blog-comments-create")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.service.List(r.Context())
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteList(w, posts)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		apierr.Respond(w, r, ErrInvalidPage)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		apierr.Respond(w, r, ErrInvalidPage)
		return
	}

	posts, total, err := handler.service.ListPage(r.Context(), page, size)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	if posts == nil {
		posts = []*Post{}
	}

	pkg.WriteJSON(w, http.StatusOK, PostsPageResponse{
		Success: true,
		Count:   len(posts),
		Total:   total,
		Data:    posts,
	})
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := apierr.ParseID(mux.Vars(r)["id"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	post, err := handler.service.Get(r.Context(), id)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusOK, post)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	var in CreatePostInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	post, err := handler.service.Create(r.Context(), in, caller)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusCreated, post)
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

	var in UpdatePostInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	post, err := handler.service.Update(r.Context(), id, in, caller)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusOK, post)
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
	pkg.WriteMessage(w, http.StatusOK, "Blog post deleted successfully")
}

func (handler *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := apierr.ParseID(mux.Vars(r)["postId"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	comments, err := handler.service.ListComments(r.Context(), postID)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteList(w, comments)
}

func (handler *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		apierr.Respond(w, r, apierr.Unauthenticated())
		return
	}

	postID, err := apierr.ParseID(mux.Vars(r)["postId"])
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}

	var in CreateCommentInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		apierr.Respond(w, r, err)
		return
	}

	comment, err := handler.service.CreateComment(r.Context(), postID, in, caller)
	if err != nil {
		apierr.Respond(w, r, err)
		return
	}
	pkg.WriteData(w, http.StatusCreated, comment)
}

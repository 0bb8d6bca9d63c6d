package middleware

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// DrainAndCloseRequest drains whatever the handler left unread in the request body and closes it,
// so the connection can be reused
func DrainAndCloseRequest() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}

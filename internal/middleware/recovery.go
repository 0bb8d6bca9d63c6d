package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/portfolioapi/internal/telemetry/metrics"
	"github.com/2beens/portfolioapi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func PanicRecovery(metricsManager *metrics.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					pkg.WriteError(respWriter, http.StatusInternalServerError, "Server Error")
				}
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}

package httpinterface

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tdex-network/tdex-custody/pkg/stats"
)

// NewRouter returns the routes of the HTTP interface. Checkout routes are
// registered only if checkoutSvc is not nil.
func NewRouter(
	custodySvc CustodyService, checkoutSvc CheckoutService, decimals int32,
) *mux.Router {
	h := newHandler(custodySvc, checkoutSvc, decimals)

	r := mux.NewRouter()
	r.Use(withStats)
	r.Handle("/metrics", promhttp.HandlerFor(stats.Registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/owners/{owner}/assets", h.listAssets).Methods(http.MethodGet)
	v1.HandleFunc("/owners/{owner}/counts", h.countAssets).Methods(http.MethodGet)
	v1.HandleFunc("/allocations", h.allocate).Methods(http.MethodPost)
	if checkoutSvc != nil {
		v1.HandleFunc("/owners/{owner}/checkouts", h.listCheckouts).Methods(http.MethodGet)
		v1.HandleFunc("/checkouts/{id}", h.getCheckout).Methods(http.MethodGet)
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withStats counts every request by route template, so that path variables
// don't explode the label cardinality.
func withStats(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		stats.HTTPRequest(route, r.Method, rec.status, time.Since(start))
	})
}

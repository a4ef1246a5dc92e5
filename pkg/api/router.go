package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "pedidosapi/docs"
	"pedidosapi/pkg/logger"
)

// NewRouter registers every route on a gorilla/mux router. tracer may be
// nil to use the global provider.
func NewRouter(h *Handler, tracer trace.Tracer, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, traceMiddleware(tracer), accessLogMiddleware(log), metricsMiddleware)

	r.HandleFunc("/productos", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/productos/{id}", h.getProduct).Methods(http.MethodGet)

	r.HandleFunc("/pedidos", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/pedidos", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/pedidos/{id}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/pedidos/{id}", h.updateOrder).Methods(http.MethodPut)
	r.HandleFunc("/pedidos/{id}", h.deleteOrder).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, "Ruta no encontrada", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusMethodNotAllowed, "Método no permitido", nil)
	})
	return r
}

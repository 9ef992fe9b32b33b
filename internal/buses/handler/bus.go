package handler

import (
	"net/http"

	"busport/internal/buses/service"
	httputil "busport/pkg/http"
	"busport/pkg/logger"
	"busport/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Middleware wraps a route with a cross-cutting concern (auth).
type Middleware func(httprouter.Handle) httprouter.Handle

type BusHandler struct {
	service   service.BusService
	log       *logger.Logger
	adminAuth Middleware
}

func NewBusHandler(service service.BusService, log *logger.Logger, adminAuth Middleware) *BusHandler {
	return &BusHandler{
		service:   service,
		log:       log,
		adminAuth: adminAuth,
	}
}

func (h *BusHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/buses/search", h.Search)
	router.GET("/api/v1/bus-routes/unique-routes", h.UniqueRoutes)
	router.GET("/api/v1/buses", h.adminAuth(h.GetAll))
}

type searchResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Buses   []model.SearchMatch `json:"buses"`
}

func (h *BusHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	matches, err := h.service.Search(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Count:   len(matches),
		Buses:   matches,
	})
}

type routesResponse struct {
	Success bool                   `json:"success"`
	Routes  []model.RouteEndpoints `json:"routes"`
}

func (h *BusHandler) UniqueRoutes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	routes, err := h.service.UniqueRoutes(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, routesResponse{
		Success: true,
		Routes:  routes,
	})
}

func (h *BusHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buses, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, buses)
}

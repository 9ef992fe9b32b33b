package handler

import (
	"net/http"

	"busport/internal/stats/service"
	httputil "busport/pkg/http"
	"busport/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type StatsHandler struct {
	service service.StatsService
	log     *logger.Logger
}

func NewStatsHandler(service service.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log,
	}
}

func (h *StatsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/stats", h.Snapshot)
}

type statsResponse struct {
	Success  bool  `json:"success"`
	Users    int64 `json:"users"`
	Buses    int64 `json:"buses"`
	Searches int64 `json:"searches"`
}

func (h *StatsHandler) Snapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Snapshot(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statsResponse{
		Success:  true,
		Users:    stats.Users,
		Buses:    stats.Buses,
		Searches: stats.Searches,
	})
}

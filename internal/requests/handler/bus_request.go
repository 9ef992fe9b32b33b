package handler

import (
	"encoding/json"
	"net/http"

	"busport/internal/requests/service"
	httputil "busport/pkg/http"
	"busport/pkg/logger"
	"busport/pkg/middleware"
	"busport/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Middleware func(httprouter.Handle) httprouter.Handle

// BusRequestHandler exposes the submission workflow: user-facing
// submit/list/get/update plus the admin moderation queue and its
// approve/reject decisions.
type BusRequestHandler struct {
	requests   service.BusRequestService
	moderation service.ModerationService
	log        *logger.Logger
	userAuth   Middleware
	adminAuth  Middleware
}

func NewBusRequestHandler(
	requests service.BusRequestService,
	moderation service.ModerationService,
	log *logger.Logger,
	userAuth Middleware,
	adminAuth Middleware,
) *BusRequestHandler {
	return &BusRequestHandler{
		requests:   requests,
		moderation: moderation,
		log:        log,
		userAuth:   userAuth,
		adminAuth:  adminAuth,
	}
}

func (h *BusRequestHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/buses/request", h.userAuth(h.Submit))
	router.GET("/api/v1/buses/my-buses", h.userAuth(h.ListMine))
	router.GET("/api/v1/buses/requests/:id", h.userAuth(h.Get))
	router.PUT("/api/v1/buses/requests/:id", h.userAuth(h.Update))

	router.GET("/api/v1/buses/requests", h.adminAuth(h.ListPending))
	router.PUT("/api/v1/buses/approve/:id", h.adminAuth(h.Approve))
	router.PUT("/api/v1/buses/reject/:id", h.adminAuth(h.Reject))
}

func (h *BusRequestHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	req.UserID = middleware.UserIDFromContext(r.Context())

	created, err := h.requests.Submit(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *BusRequestHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	requests, err := h.requests.ListMine(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, requests)
}

func (h *BusRequestHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	req, err := h.requests.Get(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, req)
}

func (h *BusRequestHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var upd model.BusRequestUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	updated, err := h.requests.Update(r.Context(), ps.ByName("id"), userID, &upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *BusRequestHandler) ListPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requests, err := h.requests.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, requests)
}

func (h *BusRequestHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bus, err := h.moderation.Approve(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bus)
}

type rejectBody struct {
	RejectionReason string `json:"rejectionReason"`
}

func (h *BusRequestHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body rejectBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Success: false,
				Error:   "Invalid request body",
			})
			return
		}
	}

	req, err := h.moderation.Reject(r.Context(), ps.ByName("id"), body.RejectionReason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, req)
}

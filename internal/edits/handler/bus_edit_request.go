package handler

import (
	"encoding/json"
	"net/http"

	"busport/internal/edits/service"
	httputil "busport/pkg/http"
	"busport/pkg/logger"
	"busport/pkg/middleware"
	"busport/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Middleware func(httprouter.Handle) httprouter.Handle

// BusEditRequestHandler exposes the edit-proposal workflow. The user
// surface is typed by verb: POST proposes an ADD, PUT an UPDATE and
// DELETE a DELETE of a stoppage; none of them touch the bus until an
// admin approves.
type BusEditRequestHandler struct {
	service   service.BusEditRequestService
	log       *logger.Logger
	userAuth  Middleware
	adminAuth Middleware
}

func NewBusEditRequestHandler(
	service service.BusEditRequestService,
	log *logger.Logger,
	userAuth Middleware,
	adminAuth Middleware,
) *BusEditRequestHandler {
	return &BusEditRequestHandler{
		service:   service,
		log:       log,
		userAuth:  userAuth,
		adminAuth: adminAuth,
	}
}

func (h *BusEditRequestHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bus-edit/:busId/stoppages", h.userAuth(h.ProposeAdd))
	router.PUT("/api/v1/bus-edit/:busId/stoppages/:sid", h.userAuth(h.ProposeUpdate))
	router.DELETE("/api/v1/bus-edit/:busId/stoppages/:sid", h.userAuth(h.ProposeDelete))

	router.GET("/api/v1/edit-bus-requests", h.adminAuth(h.ListPending))
	router.PUT("/api/v1/edit-bus-requests/:id/approve", h.adminAuth(h.Approve))
	router.PUT("/api/v1/edit-bus-requests/:id/reject", h.adminAuth(h.Reject))
}

func (h *BusEditRequestHandler) ProposeAdd(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	data, ok := h.decodeChange(w, r)
	if !ok {
		return
	}

	h.propose(w, r, &model.BusEditRequest{
		BusID: ps.ByName("busId"),
		Type:  model.EditTypeAdd,
		Data:  data,
	})
}

func (h *BusEditRequestHandler) ProposeUpdate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	data, ok := h.decodeChange(w, r)
	if !ok {
		return
	}

	h.propose(w, r, &model.BusEditRequest{
		BusID:      ps.ByName("busId"),
		StoppageID: ps.ByName("sid"),
		Type:       model.EditTypeUpdate,
		Data:       data,
	})
}

func (h *BusEditRequestHandler) ProposeDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.propose(w, r, &model.BusEditRequest{
		BusID:      ps.ByName("busId"),
		StoppageID: ps.ByName("sid"),
		Type:       model.EditTypeDelete,
	})
}

func (h *BusEditRequestHandler) propose(w http.ResponseWriter, r *http.Request, req *model.BusEditRequest) {
	req.RequestedBy = middleware.UserIDFromContext(r.Context())

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *BusEditRequestHandler) ListPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requests, err := h.service.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, requests)
}

type remarkBody struct {
	Remark string `json:"remark"`
}

func (h *BusEditRequestHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, ok := h.decodeRemark(w, r)
	if !ok {
		return
	}

	bus, err := h.service.Approve(r.Context(), ps.ByName("id"), body.Remark)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bus)
}

func (h *BusEditRequestHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, ok := h.decodeRemark(w, r)
	if !ok {
		return
	}

	req, err := h.service.Reject(r.Context(), ps.ByName("id"), body.Remark)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, req)
}

func (h *BusEditRequestHandler) decodeChange(w http.ResponseWriter, r *http.Request) (*model.StoppageChange, bool) {
	var data model.StoppageChange
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return nil, false
	}
	return &data, true
}

func (h *BusEditRequestHandler) decodeRemark(w http.ResponseWriter, r *http.Request) (remarkBody, bool) {
	var body remarkBody
	if r.ContentLength == 0 {
		return body, true
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return body, false
	}
	return body, true
}

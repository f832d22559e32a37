package handlers

import (
	"net/http"
	"time"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/http/middleware"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type submitRequest struct {
	OfferID string `json:"offer_id"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	offerID, err := common.ParseUUID(req.OfferID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"offer_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "submit:" + offerID.String() + ":" + identity.UserID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "submit rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Submit(r.Context(), identity, offerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	items, err := h.applications.ListByStudent(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityOrError(w, r); !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

type startInternshipRequest struct {
	StartDate string `json:"start_date"`
}

func (h *ApplicationHandler) StartInternship(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req startInternshipRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.StartInternship(r.Context(), identity, id, startDate)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type weeklyReportRequest struct {
	WeekNumber int    `json:"week_number"`
	Content    string `json:"content"`
}

func (h *ApplicationHandler) SubmitWeeklyReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req weeklyReportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	report, err := h.applications.SubmitWeeklyReport(r.Context(), identity, id, req.WeekNumber, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, report)
}

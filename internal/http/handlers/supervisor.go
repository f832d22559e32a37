package handlers

import (
	"net/http"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type SupervisorHandler struct {
	supervisors *app.SupervisorService
}

func NewSupervisorHandler(supervisors *app.SupervisorService) *SupervisorHandler {
	return &SupervisorHandler{supervisors: supervisors}
}

func (h *SupervisorHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	items, err := h.supervisors.ListAssigned(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *SupervisorHandler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	assignment, err := h.supervisors.ConfirmAssignment(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, assignment)
}

type scheduleAppointmentRequest struct {
	ScheduledAt string `json:"scheduled_at"`
	Location    string `json:"location"`
}

func (h *SupervisorHandler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req scheduleAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	scheduledAt, err := parseDate(req.ScheduledAt, "scheduled_at")
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.supervisors.ScheduleAppointment(r.Context(), identity, id, scheduledAt, req.Location)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type completeAppointmentRequest struct {
	Report string `json:"report"`
}

func (h *SupervisorHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "appointmentId")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req completeAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	completed, err := h.supervisors.CompleteAppointment(r.Context(), identity, id, req.Report)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, completed)
}

func (h *SupervisorHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.supervisors.ListAppointments(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *SupervisorHandler) ListWeeklyReports(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.supervisors.ListWeeklyReports(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *SupervisorHandler) CompleteInternship(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.supervisors.CompleteInternship(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

package handlers

import (
	"net/http"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type InstructorHandler struct {
	instructors *app.InstructorService
}

func NewInstructorHandler(instructors *app.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors}
}

func (h *InstructorHandler) ListUnclaimed(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	items, err := h.instructors.ListUnclaimed(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InstructorHandler) Claim(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	claimed, err := h.instructors.Claim(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, claimed)
}

type approveRequest struct {
	SupervisorID string `json:"supervisor_id"`
}

func (h *InstructorHandler) Approve(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	supervisorID, err := common.ParseUUID(req.SupervisorID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"supervisor_id": "invalid uuid"}))
		return
	}
	approved, err := h.instructors.Approve(r.Context(), identity, id, supervisorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, approved)
}

type rejectRequest struct {
	Note string `json:"note"`
}

func (h *InstructorHandler) Reject(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	rejected, err := h.instructors.Reject(r.Context(), identity, id, req.Note)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rejected)
}

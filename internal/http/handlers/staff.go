package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/application"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type StaffHandler struct {
	staff *app.StaffService
}

func NewStaffHandler(staff *app.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	status := application.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status == "" {
		status = application.StatusCommitteeApproved
	}
	items, err := h.staff.ListByStatus(r.Context(), identity, status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type prepareDocumentsRequest struct {
	ApplicationIDs []string `json:"application_ids"`
	DocumentDate   string   `json:"document_date"`
	Notes          string   `json:"notes"`
}

func (h *StaffHandler) PrepareDocuments(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	var req prepareDocumentsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids := make([]common.UUID, 0, len(req.ApplicationIDs))
	for _, raw := range req.ApplicationIDs {
		id, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"application_ids": "invalid uuid: " + raw}))
			return
		}
		ids = append(ids, id)
	}
	documentDate, err := parseDate(req.DocumentDate, "document_date")
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.staff.PrepareDocuments(r.Context(), identity, ids, documentDate, req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *StaffHandler) Reprint(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	record, err := h.staff.Reprint(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, record)
}

type staffNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *StaffHandler) SendToCompany(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req staffNotesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.staff.SendToCompany(r.Context(), identity, id, req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *StaffHandler) RecordCompanyAcceptance(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.staff.RecordCompanyAcceptance)
}

func (h *StaffHandler) MarkOngoing(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.staff.MarkOngoing)
}

func (h *StaffHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.staff.Close)
}

func (h *StaffHandler) advance(w http.ResponseWriter, r *http.Request, op func(context.Context, user.Identity, common.UUID) (*application.Application, error)) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := op(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

package handlers

import (
	"net/http"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/committee"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type CommitteeHandler struct {
	committees *app.CommitteeService
}

func NewCommitteeHandler(committees *app.CommitteeService) *CommitteeHandler {
	return &CommitteeHandler{committees: committees}
}

func (h *CommitteeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	items, err := h.committees.ListPending(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type voteRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (h *CommitteeHandler) Vote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.committees.Vote(r.Context(), identity, id, committee.Decision(req.Decision), req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type votesResponse struct {
	Votes []committee.Vote `json:"votes"`
	Tally committee.Tally  `json:"tally"`
}

func (h *CommitteeHandler) Votes(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	id, err := idFromVars(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	votes, tally, err := h.committees.VotesFor(r.Context(), identity, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, votesResponse{Votes: votes, Tally: tally})
}

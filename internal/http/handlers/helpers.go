package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
	"github.com/ultramanx88/internship-system-sub007/internal/http/middleware"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

const dateLayout = "2006-01-02"

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return common.NewError(common.CodeValidation, "request body too large", err)
		}
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	return nil
}

func idFromVars(r *http.Request, name string) (common.UUID, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return "", common.NewValidationError("invalid request", map[string]string{name: name + " is required"})
	}
	id, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{name: "invalid uuid"})
	}
	return id, nil
}

func identityOrError(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeUnauthorized, "identity not found", nil))
		return user.Identity{}, false
	}
	return identity, true
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, common.NewValidationError("invalid request", map[string]string{field: field + " is required"})
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, common.NewValidationError("invalid request", map[string]string{field: "expected YYYY-MM-DD or RFC 3339"})
	}
	return parsed, nil
}

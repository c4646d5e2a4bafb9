package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidation("invalid query parameter", []pkgerrors.FieldError{{Field: key, Message: "must be numeric"}})
	}
	if value < min || value > max {
		return 0, pkgerrors.NewValidation("invalid query parameter", []pkgerrors.FieldError{{Field: key, Message: "out of range"}})
	}
	return value, nil
}

func ParseQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.NewValidation("invalid query parameter", []pkgerrors.FieldError{{Field: key, Message: "must be true or false"}})
	}
	return value, nil
}

// ParsePathUUID parses a URL path segment captured by chi into a uuid.
func ParsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.NewValidation("invalid identifier", []pkgerrors.FieldError{{Field: field, Message: "must be a valid uuid"}})
	}
	return id, nil
}

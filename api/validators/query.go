package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/haulpoint/fleetops-backend/pkg/errors"
)

// ParseQueryInt64 reads a required numeric identifier from the query string.
func ParseQueryInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be positive").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseOptionalQueryInt64 reads an optional numeric identifier; a missing or
// empty parameter returns nil.
func ParseOptionalQueryInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := ParseQueryInt64(r, key)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

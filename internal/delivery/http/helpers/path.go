package helpers

import (
	"net/http"
	"strconv"
)

// PathID parses the named path wildcard as a positive int64.
// On failure it writes a 400 JSON error and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// QueryID parses an optional positive int64 query parameter.
// present is false when the parameter is absent.
func QueryID(r *http.Request, name string) (id int64, present bool, err error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, true, strconv.ErrSyntax
	}
	return id, true, nil
}

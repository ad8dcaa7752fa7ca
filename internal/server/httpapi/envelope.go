package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Business codes carried in the envelope next to the shared common.Code*
// values.
const (
	codeValidation = 400
	codeConflict   = 409
)

// envelope is the body of every API response.
type envelope struct {
	Code int    `json:"code"`
	Data any    `json:"data,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: common.CodeOK, Data: data})
}

// writeBusiness reports a business failure: the transport succeeded, the
// operation did not.
func writeBusiness(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, http.StatusOK, envelope{Code: code, Msg: msg})
}

// writeServiceError maps service errors onto business codes. Anything
// unrecognised is an internal error and is reported with HTTP 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeBusiness(w, codeValidation, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeBusiness(w, codeConflict, "already exists")
	case errors.Is(err, common.ErrorNotFound):
		writeBusiness(w, common.CodeNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeBusiness(w, common.CodeUnauthorized, "invalid credentials")
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Code: common.CodeInternal, Msg: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

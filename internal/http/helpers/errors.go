package helpers

import (
	"encoding/json"
	"net/http"
)

// HTTPError es un error con status y mensaje para el usuario.
// El body de error del API es siempre {"error": "<mensaje>"}.
type HTTPError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string { return e.Message }

// NewHTTPError construye un HTTPError.
func NewHTTPError(status int, msg string) *HTTPError {
	return &HTTPError{Status: status, Message: msg}
}

// Errores estándar.
var (
	ErrMethodNotAllowed = NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
	ErrInvalidJSON      = NewHTTPError(http.StatusBadRequest, "Invalid request body")
	ErrInternal         = NewHTTPError(http.StatusInternalServerError, "Internal server error")
)

// WriteError escribe el error como JSON. Errores de tipo desconocido caen
// a 500 con su mensaje (los handlers envuelven todo en un catch superior;
// no se filtran tipos internos, solo el string).
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}

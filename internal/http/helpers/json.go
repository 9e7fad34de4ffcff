package helpers

import (
	"encoding/json"
	"net/http"
)

// WriteJSON escribe un body JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteSuccess escribe un body de éxito. Todos los bodies de éxito del API
// llevan success: true además de sus campos propios.
func WriteSuccess(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body)
}

package httpapi

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the uniform error body for every endpoint. The code is a
// stable machine-readable string; the message is safe to show to the user
// (auth failures share one message on purpose).
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	var res errorEnvelope
	res.Error.Code = code
	res.Error.Message = msg
	writeJSON(w, status, res)
}

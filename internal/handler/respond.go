// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gestevent/registration/internal/ident"
	"github.com/gestevent/registration/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the error envelope. A missing code is derived from the
// message so the calling page always has something machine-readable.
func writeError(w http.ResponseWriter, status int, msg, code string) {
	if code == "" {
		code = ident.CodeFromMessage(msg)
	}
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

// writeRejection emits a typed registration rejection.
func writeRejection(w http.ResponseWriter, rej *model.RegistrationError) {
	writeError(w, rej.Status, rej.Message, rej.Code)
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

// clientIP resolves the source address, preferring forwarded headers over
// the client-supplied body field or the socket address.
func clientIP(r *http.Request, bodyIP string) string {
	if h := r.Header.Get("X-Forwarded-For"); h != "" {
		return strings.TrimSpace(strings.Split(h, ",")[0])
	}
	if h := r.Header.Get("X-Real-Ip"); h != "" {
		return h
	}
	if bodyIP != "" {
		return bodyIP
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

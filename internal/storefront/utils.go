package storefront

import (
	"encoding/json"
	"net/http"

	"tiendita/pkg/problems"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the JSON error convention: a human message plus a
// problem type URL.
func writeError(w http.ResponseWriter, status int, slug, msg string) {
	writeJSON(w, map[string]any{
		"type":  problems.Type(slug),
		"error": msg,
	}, status)
}

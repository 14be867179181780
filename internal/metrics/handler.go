package metrics

import (
	"crypto/subtle"
	"net/http"

	"umkm-store-be/internal/utils"
)

const InternalKeyHeader = "X-Internal-Key"

// Handler serves a counter snapshot to callers presenting the internal key.
// An empty secret disables the endpoint.
func Handler(reg *Registry, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(InternalKeyHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			utils.WriteJSONError(w, "Forbidden.", http.StatusForbidden)
			return
		}

		utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: reg.Snapshot()})
	}
}

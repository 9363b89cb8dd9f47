package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxJSONBody bounds JSON request bodies. File uploads use multipart and
// are bounded separately by the domain size ceilings.
const maxJSONBody = 1 << 20 // 1 MB

// ParseJSON decodes the request body into dest with a size cap and a clear
// error message. Unknown fields are tolerated; validation happens
// downstream in the services.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

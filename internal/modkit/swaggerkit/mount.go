// Package swaggerkit mounts the swagger UI and the post-processed spec json
package swaggerkit

import phttp "crimecast/internal/platform/net/http"

// DocURL is where the spec json is served
const DocURL = "/api/docs/doc.json"

// Mount serves the UI under /api/docs when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(DocURL, serveDocJSON())
	phttp.MountSwagger(r, "/api/docs", DocURL)
}

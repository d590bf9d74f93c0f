package http

import (
	stdhttp "net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the swagger UI under prefix (e.g. "/api/docs"); docURL points at the spec json
func MountSwagger(r Router, prefix, docURL string) {
	prefix = strings.TrimRight(prefix, "/")
	ui := httpSwagger.Handler(httpSwagger.URL(docURL))
	r.Get(prefix, func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		stdhttp.Redirect(w, req, prefix+"/index.html", stdhttp.StatusMovedPermanently)
	})
	r.Get(prefix+"/*", ui)
}

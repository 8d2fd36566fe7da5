package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// AllowCors wraps the handler with the CORS policy of the api server. An
// empty allowedOrigins allows every origin.
func AllowCors(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization",
		},
	}).Handler(h)
}

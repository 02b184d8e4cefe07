package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicSportsRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return chain(mux,
		RequestTracing(),
		RequestLogging(logger),
		CORS(corsAllowedOrigins),
		RecoverPanic(logger),
	)
}

// NewServer wraps router in an http.Server with the configured timeouts.
func NewServer(addr string, router http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * writeTimeout,
	}
}

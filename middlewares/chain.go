package middlewares

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
)

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// CORS lets the browser client, served from another origin, call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler
}

// recoveryWriter turns the bare 500 written by RecoveryHandler into the
// JSON error payload every other failure uses.
type recoveryWriter struct {
	http.ResponseWriter
	panicked bool
}

func (rw *recoveryWriter) WriteHeader(code int) {
	if !rw.panicked {
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.ResponseWriter.WriteHeader(code)
	_, _ = rw.ResponseWriter.Write([]byte(`{"error":"Internal Server Error"}` + "\n"))
}

// Recovery turns a panic into a 500 {"error"} response and logs it.
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	rh := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})),
		handlers.PrintRecoveryStack(true),
	)
	return func(next http.Handler) http.Handler {
		mark := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if rw, ok := w.(*recoveryWriter); ok {
						rw.panicked = true
					}
					panic(p)
				}
			}()
			next.ServeHTTP(w, r)
		})
		h := rh(mark)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(&recoveryWriter{ResponseWriter: w}, r)
		})
	}
}

// Wrap applies the standard middleware stack to h. The first listed runs
// outermost.
func Wrap(h http.Handler, logger *log.Logger, opts Options) http.Handler {
	stack := []func(http.Handler) http.Handler{
		RequestID,
		Logging(logger),
		Recovery(logger),
		CORS(opts.AllowedOrigins),
		RateLimit(opts.RateLimitRPS, opts.RateLimitBurst),
		Timeout(opts.RequestTimeout),
	}
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

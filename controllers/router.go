package controllers

import (
	"net/http"
	"time"

	"kbassistant/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RequestIDHeader carries the request id on requests and responses
const RequestIDHeader = "X-Request-ID"

// NewRouter configures all endpoints and wraps them with CORS
func NewRouter(c *Controller, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(withRequestID, withLogging)

	router.HandleFunc("/", c.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/chat", c.ChatHandler).Methods(http.MethodPost)
	router.HandleFunc("/health", c.HealthHandler).Methods(http.MethodGet)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(router)
}

// withRequestID reuses the caller's request id or assigns a new one
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(utils.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs every request
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		utils.LoggerFromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

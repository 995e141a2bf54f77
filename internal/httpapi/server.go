package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signd/internal/classifier"
	"signd/pkg/types"
)

const (
	serviceName    = "Traffic Sign Classification API"
	serviceVersion = "1.0.0"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ready() bool
	ModelPath() string
	Labels() []string
	Status() types.StatusResponse
	Predict(ctx context.Context, data []byte, filename string) (*types.PredictResponse, error)
}

// endpointMap is the static route summary returned by GET /.
var endpointMap = map[string]string{
	"/":        "service metadata",
	"/health":  "health check",
	"/predict": "traffic sign prediction (POST, multipart image upload)",
	"/labels":  "class label listing",
	"/status":  "runtime status",
	"/docs":    "interactive API documentation",
	"/metrics": "Prometheus metrics",
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ServiceInfo{
			Message:   serviceName,
			Version:   serviceVersion,
			Endpoints: endpointMap,
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			writeJSONError(w, http.StatusServiceUnavailable, "model not loaded")
			return
		}
		writeJSON(w, types.HealthResponse{
			Status:      "healthy",
			ModelLoaded: true,
			ModelPath:   svc.ModelPath(),
		})
	})

	r.Get("/labels", func(w http.ResponseWriter, r *http.Request) {
		labels := svc.Labels()
		writeJSON(w, types.LabelsResponse{TotalClasses: len(labels), Labels: labels})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) { handlePredict(svc, w, r) })

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func handlePredict(svc Service, w http.ResponseWriter, r *http.Request) {
	// Limit body size (configurable, default 10MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "image upload too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		// Legacy clients upload under 'image'.
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no image file provided; use the 'file' form field")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(strings.ToLower(ct), "image/") &&
		!strings.EqualFold(ct, "application/octet-stream") {
		writeJSONError(w, http.StatusBadRequest, "unsupported file type; upload an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	lvl := requestLogLevel(r)
	if lvl >= LevelInfo {
		logPredictStart(r, header.Filename, header.Size)
	}
	start := time.Now()

	// Join server base context with request context so shutdown cancels work too.
	joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	resp, err := svc.Predict(joinedCtx, data, header.Filename)
	if err != nil {
		// If context was canceled (client disconnect), just return.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := predictErrorStatus(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("predict")
		}
		writeJSONError(w, status, err.Error())
		if lvl >= LevelInfo {
			logPredictEnd(r, status, start, err)
		}
		return
	}
	writeJSON(w, resp)
	if lvl >= LevelInfo {
		logPredictEnd(r, http.StatusOK, start, nil)
	}
}

// predictErrorStatus maps well-known classifier errors to HTTP status codes.
func predictErrorStatus(err error) int {
	switch {
	case classifier.IsNotLoaded(err), classifier.IsBackendUnavailable(err):
		return http.StatusServiceUnavailable
	case classifier.IsBadImage(err):
		return http.StatusBadRequest
	case classifier.IsTooBusy(err):
		return http.StatusTooManyRequests
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

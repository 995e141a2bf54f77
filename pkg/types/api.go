package types

// ServiceInfo is returned by GET / and describes the service surface.
type ServiceInfo struct {
	// Service name.
	// example: Traffic Sign Classification API
	Message string `json:"message" example:"Traffic Sign Classification API"`
	// Service version.
	// example: 1.0.0
	Version string `json:"version" example:"1.0.0"`
	// Route -> short description map.
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is returned by GET /health when the classifier is serving.
type HealthResponse struct {
	// Overall health indicator.
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Whether the model artifact loaded successfully.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Path of the loaded model artifact.
	// example: /models/traffic_sign_model.onnx
	ModelPath string `json:"model_path" example:"/models/traffic_sign_model.onnx"`
}

// Prediction is a single ranked classification result.
type Prediction struct {
	// Model output index of the class.
	// example: 14
	ClassID int `json:"class_id" example:"14"`
	// Human-readable class name.
	// example: Stop
	Label string `json:"label" example:"Stop"`
	// Model confidence for this class.
	// example: 0.98
	Confidence float32 `json:"confidence" example:"0.98"`
}

// PredictResponse is returned by POST /predict.
type PredictResponse struct {
	// Always true on a 200 response.
	// example: true
	Success bool `json:"success" example:"true"`
	// Highest-confidence prediction.
	Prediction Prediction `json:"prediction"`
	// Ranked predictions, best first.
	TopPredictions []Prediction `json:"top_predictions"`
	// Original upload file name, if provided.
	// example: stop_sign.jpg
	Filename string `json:"filename,omitempty" example:"stop_sign.jpg"`
}

// LabelsResponse is returned by GET /labels.
type LabelsResponse struct {
	// Number of classes the model predicts over.
	// example: 43
	TotalClasses int `json:"total_classes" example:"43"`
	// Ordered class names; index i names model output i.
	Labels []string `json:"labels"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Classifier state (ready or degraded).
	// example: ready
	State string `json:"state" example:"ready"`
	// ID of the loaded model artifact.
	// example: traffic_sign_model.onnx
	ModelID string `json:"model_id,omitempty" example:"traffic_sign_model.onnx"`
	// Path of the loaded model artifact.
	ModelPath string `json:"model_path,omitempty"`
	// Reason the classifier is degraded, if it is.
	LastError string `json:"last_error,omitempty"`
	// Number of classes the model predicts over.
	// example: 43
	ClassCount int `json:"class_count" example:"43"`
	// How many ranked predictions /predict returns.
	// example: 3
	TopK int `json:"top_k" example:"3"`
	// Total successful predictions since start.
	// example: 120
	PredictionsTotal uint64 `json:"predictions_total" example:"120"`
	// Total failed predictions since start.
	// example: 2
	FailuresTotal uint64 `json:"failures_total" example:"2"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: undecodable image payload
	Error string `json:"error" example:"undecodable image payload"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

package types

// ModelArtifact represents a discoverable classifier artifact on disk.
type ModelArtifact struct {
	// Stable identifier for the artifact (the file name).
	// example: traffic_sign_model.onnx
	ID string `json:"id" example:"traffic_sign_model.onnx"`
	// Human-friendly name.
	// example: traffic_sign_model.onnx
	Name string `json:"name" example:"traffic_sign_model.onnx"`
	// Absolute path to the model file on disk.
	// example: /models/traffic_sign_model.onnx
	Path string `json:"path" example:"/models/traffic_sign_model.onnx"`
	// Absolute path to the sidecar metadata JSON, if present.
	// example: /models/traffic_sign_model.json
	MetadataPath string `json:"metadata_path,omitempty" example:"/models/traffic_sign_model.json"`
}

// Metadata describes the tensor geometry and label set of a model artifact.
// The schema matches the sidecar JSON exported alongside the trained model.
type Metadata struct {
	// Input tensor shape, batch dimension first (NHWC).
	InputShape []int64 `json:"input_shape"`
	// Output tensor shape, batch dimension first.
	OutputShape []int64 `json:"output_shape"`
	// Ordered class names; index i names model output i.
	Classes []string `json:"classes"`
	// Square input image edge length in pixels.
	// example: 32
	ImageSize int `json:"image_size" example:"32"`
}

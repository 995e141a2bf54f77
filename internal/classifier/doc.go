// Package classifier loads an image-classification model artifact and serves
// predictions over it. It is structured into small files by concern:
//
//   - classifier.go: core Classifier type, constructor, status reporting.
//   - config.go: Config and package defaults; New applies defaults.
//   - errors.go: error types and helpers (IsNotLoaded, IsBadImage, IsTooBusy).
//   - backend.go: the inference backend interface.
//   - backend_ort.go: onnxruntime backend (build tag 'ort').
//   - backend_stub.go: no-CGO stub compiled without the 'ort' tag.
//   - preprocess.go: image decode, resize, and tensor layout.
//   - predict.go: admission, inference, and top-K ranking.
//   - metrics.go: Prometheus counters for prediction outcomes.
//
// The onnxruntime session reuses pre-allocated input/output tensors, so
// inference runs are serialized through an admission gate; callers that cannot
// acquire the gate within the configured wait receive a too-busy error.
package classifier

//go:build !ort

package classifier

import "signd/pkg/types"

// This file provides a no-CGO stub for the onnxruntime backend. It is compiled
// when the 'ort' build tag is NOT set, keeping default builds and CI free of
// the native onnxruntime dependency. The real backend lives in backend_ort.go.

func newBackend(modelPath string, meta types.Metadata, libPath string) (backend, error) {
	// Fail fast: the onnxruntime runtime is not available in this build.
	return nil, ErrBackendUnavailable("onnxruntime support not built (missing 'ort' build tag)")
}

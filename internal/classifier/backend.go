package classifier

import "signd/pkg/types"

// backend abstracts the inference runtime behind the Classifier.
// Implementations are not required to be safe for concurrent infer calls;
// the Classifier serializes access through its admission gate.
type backend interface {
	// infer runs one forward pass and returns a copy of the output scores.
	infer(input []float32) ([]float32, error)
	// close releases runtime resources.
	close() error
}

// newBackendFn is swapped in tests to inject a fake runtime.
var newBackendFn = func(modelPath string, meta types.Metadata, libPath string) (backend, error) {
	return newBackend(modelPath, meta, libPath)
}

package classifier

import (
	"time"

	"signd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultTopK    = 3
	defaultMaxWait = 5 * time.Second
)

// Config encapsulates all tunables for Classifier construction.
type Config struct {
	Artifact types.ModelArtifact
	Metadata types.Metadata
	// Number of ranked predictions returned per request.
	TopK int
	// Maximum time a request waits for the inference gate before too-busy.
	MaxWait time.Duration
	// Optional path to the onnxruntime shared library.
	ORTLibrary string
}

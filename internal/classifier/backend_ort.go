//go:build ort

package classifier

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"signd/pkg/types"
)

// The onnxruntime environment is process-wide and initialized at most once.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initEnvironment(libPath string) error {
	ortInitOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ortBackend runs inference through an onnxruntime session with
// pre-allocated input and output tensors.
type ortBackend struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func newBackend(modelPath string, meta types.Metadata, libPath string) (backend, error) {
	if err := initEnvironment(libPath); err != nil {
		return nil, ErrBackendUnavailable(fmt.Sprintf("initialize onnxruntime: %v", err))
	}

	inputShape := ort.NewShape(meta.InputShape...)
	outputShape := ort.NewShape(meta.OutputShape...)

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ortBackend{session: session, input: input, output: output}, nil
}

func (b *ortBackend) infer(input []float32) ([]float32, error) {
	copy(b.input.GetData(), input)
	if err := b.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	out := b.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (b *ortBackend) close() error {
	if b.input != nil {
		b.input.Destroy()
	}
	if b.output != nil {
		b.output.Destroy()
	}
	if b.session != nil {
		b.session.Destroy()
	}
	return nil
}

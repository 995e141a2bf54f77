package classifier

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"signd/pkg/types"
)

// fakeBackend returns canned scores and optionally blocks until released.
type fakeBackend struct {
	scores  []float32
	err     error
	block   chan struct{}
	closed  bool
	inputs  atomic.Int32
	lastLen atomic.Int32
}

func (f *fakeBackend) infer(input []float32) ([]float32, error) {
	f.inputs.Add(1)
	f.lastLen.Store(int32(len(input)))
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]float32(nil), f.scores...), nil
}

func (f *fakeBackend) close() error { f.closed = true; return nil }

// withFakeBackend swaps the backend factory for the duration of a test.
func withFakeBackend(t *testing.T, fb *fakeBackend) {
	t.Helper()
	prev := newBackendFn
	newBackendFn = func(string, types.Metadata, string) (backend, error) { return fb, nil }
	t.Cleanup(func() { newBackendFn = prev })
}

func testMetadata(classes ...string) types.Metadata {
	size := int64(4)
	return types.Metadata{
		InputShape:  []int64{1, size, size, 3},
		OutputShape: []int64{1, int64(len(classes))},
		Classes:     classes,
		ImageSize:   int(size),
	}
}

func pngImage(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNew_DegradedWithoutRuntime(t *testing.T) {
	// Default builds carry the stub backend.
	c, err := New(Config{Metadata: testMetadata("a", "b")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Ready() {
		t.Fatalf("expected degraded classifier without 'ort' build tag")
	}
	if c.LoadError() == "" {
		t.Fatalf("expected load error to be recorded")
	}
	_, err = c.Predict(context.Background(), pngImage(t, 8, 8, color.White), "x.png")
	if !IsNotLoaded(err) {
		t.Fatalf("expected not-loaded error, got %v", err)
	}
	if st := c.Status(); st.State != "degraded" {
		t.Fatalf("state=%s", st.State)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNew_RejectsEmptyLabels(t *testing.T) {
	meta := testMetadata()
	if _, err := New(Config{Metadata: meta}); err == nil {
		t.Fatalf("expected error for empty label set")
	}
}

func TestPredict_RanksTopK(t *testing.T) {
	fb := &fakeBackend{scores: []float32{0.1, 0.7, 0.2}}
	withFakeBackend(t, fb)
	c, err := New(Config{Metadata: testMetadata("twenty", "stop", "yield"), TopK: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !c.Ready() {
		t.Fatalf("expected ready classifier")
	}

	resp, err := c.Predict(context.Background(), pngImage(t, 16, 16, color.White), "stop.png")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.Prediction.ClassID != 1 || resp.Prediction.Label != "stop" {
		t.Fatalf("unexpected top prediction: %+v", resp.Prediction)
	}
	if len(resp.TopPredictions) != 2 {
		t.Fatalf("expected 2 ranked predictions, got %d", len(resp.TopPredictions))
	}
	if resp.TopPredictions[1].ClassID != 2 {
		t.Fatalf("unexpected second prediction: %+v", resp.TopPredictions[1])
	}
	if resp.Filename != "stop.png" {
		t.Fatalf("filename=%s", resp.Filename)
	}
	if fb.lastLen.Load() != 4*4*3 {
		t.Fatalf("expected %d input values, got %d", 4*4*3, fb.lastLen.Load())
	}
	if st := c.Status(); st.PredictionsTotal != 1 || st.State != "ready" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestPredict_BadImage(t *testing.T) {
	fb := &fakeBackend{scores: []float32{1}}
	withFakeBackend(t, fb)
	c, err := New(Config{Metadata: testMetadata("only")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Predict(context.Background(), []byte("definitely not an image"), "x.bin")
	if !IsBadImage(err) {
		t.Fatalf("expected bad-image error, got %v", err)
	}
	if fb.inputs.Load() != 0 {
		t.Fatalf("backend must not run on bad input")
	}
}

func TestPredict_TooBusy(t *testing.T) {
	fb := &fakeBackend{scores: []float32{1}, block: make(chan struct{})}
	withFakeBackend(t, fb)
	c, err := New(Config{Metadata: testMetadata("only"), MaxWait: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	img := pngImage(t, 8, 8, color.White)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Predict(context.Background(), img, "a.png")
	}()
	// Wait for the first request to hold the gate.
	deadline := time.Now().Add(time.Second)
	for fb.inputs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("first predict never reached the backend")
		}
		time.Sleep(time.Millisecond)
	}
	_, err = c.Predict(context.Background(), img, "b.png")
	if !IsTooBusy(err) {
		t.Fatalf("expected too-busy error, got %v", err)
	}
	close(fb.block)
	<-done
}

func TestPredict_ContextCanceled(t *testing.T) {
	fb := &fakeBackend{scores: []float32{1}, block: make(chan struct{})}
	withFakeBackend(t, fb)
	c, err := New(Config{Metadata: testMetadata("only"), MaxWait: time.Minute})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	img := pngImage(t, 8, 8, color.White)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Predict(context.Background(), img, "a.png")
	}()
	deadline := time.Now().Add(time.Second)
	for fb.inputs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("first predict never reached the backend")
		}
		time.Sleep(time.Millisecond)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Predict(ctx, img, "b.png"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(fb.block)
	<-done
}

func TestLabels_ReturnsCopy(t *testing.T) {
	c, err := New(Config{Metadata: testMetadata("a", "b")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ls := c.Labels()
	ls[0] = "mutated"
	if c.Labels()[0] != "a" {
		t.Fatalf("label set must be immutable")
	}
}

func TestClose_ReleasesBackend(t *testing.T) {
	fb := &fakeBackend{scores: []float32{1}}
	withFakeBackend(t, fb)
	c, err := New(Config{Metadata: testMetadata("only")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !fb.closed {
		t.Fatalf("expected backend close")
	}
}

package blackbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	return filepath.Dir(filepath.Dir(bbDir))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "signd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/signd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

func createTempModelsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "signs.onnx"), []byte(""), 0o644); err != nil {
		t.Fatalf("write temp model: %v", err)
	}
	return dir
}

type serverProc struct {
	cmd  *exec.Cmd
	base string
}

func startServer(t *testing.T, bin, modelsDir string, port int) *serverProc {
	t.Helper()
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin,
		"--addr", fmt.Sprintf(":%d", port),
		"--models-dir", modelsDir,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for the root endpoint, which is up regardless of model state.
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not come up in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postImage(t *testing.T, url string, content []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "sign.png")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = mw.Close()
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// The default build carries the onnxruntime stub, so the daemon comes up
// degraded: metadata endpoints work, inference reports 503.
func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := createTempModelsDir(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, port)

	// /
	resp, body := get(t, sp.base+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/ %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/ content-type=%s", ct)
	}

	// /labels falls back to the built-in GTSRB set
	resp, body = get(t, sp.base+"/labels")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/labels %d %s", resp.StatusCode, string(body))
	}
	var labels struct {
		TotalClasses int      `json:"total_classes"`
		Labels       []string `json:"labels"`
	}
	if err := json.Unmarshal(body, &labels); err != nil {
		t.Fatalf("/labels json: %v body=%s", err, string(body))
	}
	if labels.TotalClasses != 43 || len(labels.Labels) != 43 {
		t.Fatalf("expected 43 GTSRB labels, got %d/%d", labels.TotalClasses, len(labels.Labels))
	}

	// /docs works regardless of model state
	resp, body = get(t, sp.base+"/docs")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/docs %d %s", resp.StatusCode, string(body))
	}

	// /health reports the missing runtime
	resp, body = get(t, sp.base+"/health")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/health %d %s", resp.StatusCode, string(body))
	}

	// /predict surfaces model-not-loaded, not a crash
	resp, body = postImage(t, sp.base+"/predict", testPNG(t))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/predict %d %s", resp.StatusCode, string(body))
	}
	var errResp struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("/predict json: %v body=%s", err, string(body))
	}
	if errResp.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error payload: %+v", errResp)
	}

	// /status reports degraded with the artifact identified
	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var status struct {
		State   string `json:"state"`
		ModelID string `json:"model_id"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if status.State != "degraded" || status.ModelID != "signs.onnx" {
		t.Fatalf("unexpected status: %+v", status)
	}

	// /metrics
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("signd_http_requests_total")) {
		t.Fatalf("expected request counters in /metrics output")
	}
}

func TestBlackbox_SidecarLabels(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelsDir, "tiny.onnx"), []byte(""), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	meta := `{"input_shape":[1,32,32,3],"output_shape":[1,2],"classes":["Stop","Yield"],"image_size":32}`
	if err := os.WriteFile(filepath.Join(modelsDir, "tiny.json"), []byte(meta), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, port)

	resp, body := get(t, sp.base+"/labels")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/labels %d %s", resp.StatusCode, string(body))
	}
	var labels struct {
		TotalClasses int      `json:"total_classes"`
		Labels       []string `json:"labels"`
	}
	if err := json.Unmarshal(body, &labels); err != nil {
		t.Fatalf("/labels json: %v", err)
	}
	if labels.TotalClasses != 2 || labels.Labels[0] != "Stop" {
		t.Fatalf("expected sidecar labels, got %+v", labels)
	}
}

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"signd/internal/common/fsutil"
	"signd/pkg/types"
)

// LoadDir scans a directory for *.onnx files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
// A sidecar metadata file named <base>.json is picked up when present.
func LoadDir(dir string) ([]types.ModelArtifact, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var artifacts []types.ModelArtifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".onnx") {
			continue
		}
		p := filepath.Join(abs, name)
		meta := strings.TrimSuffix(p, filepath.Ext(p)) + ".json"
		if !fsutil.IsRegularFile(meta) {
			meta = ""
		}
		artifacts = append(artifacts, types.ModelArtifact{ID: name, Name: name, Path: p, MetadataPath: meta})
	}
	return artifacts, nil
}

// Select picks the artifact with the given id, or the first artifact when id is empty.
func Select(artifacts []types.ModelArtifact, id string) (types.ModelArtifact, error) {
	if len(artifacts) == 0 {
		return types.ModelArtifact{}, fmt.Errorf("no model artifacts found")
	}
	if id == "" {
		return artifacts[0], nil
	}
	for _, a := range artifacts {
		if a.ID == id {
			return a, nil
		}
	}
	return types.ModelArtifact{}, fmt.Errorf("model artifact not found: %s", id)
}

// LoadMetadata reads the artifact's sidecar metadata and fills gaps with
// defaults: the built-in GTSRB label set when classes are missing, and
// 32x32 RGB NHWC tensor geometry when shapes are absent.
func LoadMetadata(a types.ModelArtifact) (types.Metadata, error) {
	var meta types.Metadata
	if a.MetadataPath != "" {
		b, err := os.ReadFile(a.MetadataPath)
		if err != nil {
			return meta, fmt.Errorf("read metadata: %w", err)
		}
		if err := json.Unmarshal(b, &meta); err != nil {
			return meta, fmt.Errorf("parse metadata: %w", err)
		}
	}
	applyDefaults(&meta)
	return meta, nil
}

func applyDefaults(meta *types.Metadata) {
	if len(meta.Classes) == 0 {
		meta.Classes = append([]string(nil), DefaultLabels...)
	}
	if meta.ImageSize <= 0 {
		// NHWC: height is the second input dimension when a shape is given.
		if len(meta.InputShape) >= 2 && meta.InputShape[1] > 0 {
			meta.ImageSize = int(meta.InputShape[1])
		} else {
			meta.ImageSize = DefaultImageSize
		}
	}
	if len(meta.InputShape) == 0 {
		s := int64(meta.ImageSize)
		meta.InputShape = []int64{1, s, s, 3}
	}
	if len(meta.OutputShape) == 0 {
		meta.OutputShape = []int64{1, int64(len(meta.Classes))}
	}
}

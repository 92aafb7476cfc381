// Package production provides production integrations for the render
// pipeline: trace persistence, scope-event publishing, visualization.
// Implements pipeline interfaces using stdlib where possible.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/markupx/render"
)

// JSONPersister is a stdlib-only file-based persister for render traces using
// JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot render.RenderSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := filepath.Join(p.dir, snapshot.RenderID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *JSONPersister) Load(ctx context.Context, renderID string) (render.RenderSnapshot, error) {
	fn := filepath.Join(p.dir, renderID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			var empty render.RenderSnapshot
			return empty, fmt.Errorf("render %q: %w", renderID, os.ErrNotExist)
		}
		return render.RenderSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot render.RenderSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return render.RenderSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.RenderID = renderID // Ensure ID

	return snapshot, nil
}

// YAMLPersister is a file-based persister for render traces using YAML
// serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot render.RenderSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := filepath.Join(p.dir, snapshot.RenderID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, renderID string) (render.RenderSnapshot, error) {
	fn := filepath.Join(p.dir, renderID+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			var empty render.RenderSnapshot
			return empty, fmt.Errorf("render %q: %w", renderID, os.ErrNotExist)
		}
		return render.RenderSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot render.RenderSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return render.RenderSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.RenderID = renderID // Ensure ID
	if err := snapshot.Validate(); err != nil {
		return render.RenderSnapshot{}, fmt.Errorf("snapshot validation after load: %w", err)
	}

	return snapshot, nil
}

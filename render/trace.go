package render

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// ElementRecord is the trace record for one rendered element.
type ElementRecord struct {
	Tag      string            `json:"tag" yaml:"tag"`
	UniqueID string            `json:"unique_id" yaml:"unique_id"`
	Depth    int               `json:"depth" yaml:"depth"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Output   string            `json:"output,omitempty" yaml:"output,omitempty"`
}

// RenderSnapshot is the persistable trace of one render: every element
// visited, in completion order.
type RenderSnapshot struct {
	RenderID string          `json:"render_id" yaml:"render_id"`
	Elements []ElementRecord `json:"elements" yaml:"elements"`
}

// Validate checks snapshot integrity after deserialization.
func (s RenderSnapshot) Validate() error {
	if s.RenderID == "" {
		return fmt.Errorf("snapshot missing render ID")
	}
	for i, e := range s.Elements {
		if e.Tag == "" {
			return fmt.Errorf("element %d missing tag", i)
		}
		if e.UniqueID == "" {
			return fmt.Errorf("element %d (<%s>) missing unique ID", i, e.Tag)
		}
	}
	return nil
}

// ComputeRenderID computes a deterministic-prefix identifier for a render
// trace: SHA256(elements JSON)[:8] plus a timestamp.
func ComputeRenderID(elements []ElementRecord) string {
	data, err := json.Marshal(elements)
	if err != nil {
		// Fallback (should not happen for valid records)
		return fmt.Sprintf("invalid-%d", time.Now().Unix())
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x-%s", hash[:8], time.Now().UTC().Format("20060102T150405Z"))
}

// Package file exports snapshots as JSON or YAML documents on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension. Anything other
// than .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Sink implements ports.SnapshotSink. Each label becomes
// <dir>/<label>.<ext>, written atomically through a temporary file.
type Sink struct {
	dir    string
	format Format
}

var (
	_ ports.SnapshotSink   = (*Sink)(nil)
	_ ports.SnapshotLister = (*Sink)(nil)
)

// New creates a sink writing into dir.
func New(dir string, format Format) (*Sink, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &Sink{dir: dir, format: format}, nil
}

// NewForPath creates a sink for a target file such as /tmp/tree.yaml. The
// directory and the format come from the path; the label given to Export
// replaces the file's base name.
func NewForPath(path string) (*Sink, error) {
	return New(filepath.Dir(path), FormatFromPath(path))
}

// Path returns the file a label is written to.
func (s *Sink) Path(label string) string {
	return filepath.Join(s.dir, label+"."+string(s.format))
}

// Export encodes the snapshot and renames it into place.
func (s *Sink) Export(ctx context.Context, label string, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("file sink: nil snapshot")
	}
	if label == "" || strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("file sink: invalid label %q", label)
	}

	data, err := Encode(snap, s.format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+label+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(label)); err != nil {
		return fmt.Errorf("failed to export snapshot %s: %w", label, err)
	}
	return nil
}

// List returns the labels present in the directory, sorted.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read export dir: %w", err)
	}
	ext := "." + string(s.format)
	var labels []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		labels = append(labels, strings.TrimSuffix(name, ext))
	}
	sort.Strings(labels)
	return labels, nil
}

// Encode serialises a snapshot in the given format.
func Encode(snap *domain.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		return append(data, '\n'), nil
	}
}

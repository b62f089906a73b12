// Package export resolves sink URLs from the configuration and CLI flags.
package export

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultLabel names snapshots exported without an explicit label.
const DefaultLabel = "latest"

// Target is an opened sink and the label snapshots are exported under.
type Target struct {
	Sink  ports.SnapshotSink
	Label string
}

// Open resolves raw into a sink.
//
//	/tmp/tree.json, file:///tmp/tree.yaml   file sink, label from the base name
//	redis://host:6379/0?ttl=1h#label        redis sink
//	memory:#label                           in-process sink
func Open(raw string) (*Target, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty export target")
	}

	if !strings.Contains(raw, ":") || filepath.IsAbs(raw) {
		return openFile(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid export target %q: %w", raw, err)
	}
	label := u.Fragment
	if label == "" {
		label = DefaultLabel
	}

	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "redis", "rediss":
		base := raw
		if i := strings.IndexByte(base, '#'); i >= 0 {
			base = base[:i]
		}
		sink, err := redis.NewFromURL(base)
		if err != nil {
			return nil, err
		}
		return &Target{Sink: sink, Label: label}, nil
	case "memory":
		return &Target{Sink: memory.NewSink(), Label: label}, nil
	}
	return nil, fmt.Errorf("unsupported export scheme %q", u.Scheme)
}

func openFile(path string) (*Target, error) {
	sink, err := file.NewForPath(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	label := strings.TrimSuffix(base, filepath.Ext(base))
	return &Target{Sink: sink, Label: label}, nil
}

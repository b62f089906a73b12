package export_test

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/internal/export"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()

	target, err := export.Open(filepath.Join(dir, "tree.yaml"))
	require.NoError(t, err)
	assert.IsType(t, &file.Sink{}, target.Sink)
	assert.Equal(t, "tree", target.Label)
	assert.Equal(t, filepath.Join(dir, "tree.yaml"), target.Sink.(*file.Sink).Path(target.Label))

	target, err = export.Open("file://" + filepath.Join(dir, "snap.json"))
	require.NoError(t, err)
	assert.Equal(t, "snap", target.Label)

	target, err = export.Open("relative.json")
	require.NoError(t, err)
	assert.Equal(t, "relative", target.Label)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	target, err := export.Open("redis://" + mr.Addr() + "/0?ttl=1m#desk")
	require.NoError(t, err)
	assert.IsType(t, &redis.Sink{}, target.Sink)
	assert.Equal(t, "desk", target.Label)

	target, err = export.Open("redis://" + mr.Addr())
	require.NoError(t, err)
	assert.Equal(t, export.DefaultLabel, target.Label)
}

func TestOpen_Memory(t *testing.T) {
	target, err := export.Open("memory:#x")
	require.NoError(t, err)
	assert.IsType(t, &memory.Sink{}, target.Sink)
	assert.Equal(t, "x", target.Label)
}

func TestOpen_Invalid(t *testing.T) {
	for _, raw := range []string{"", "ftp://host/x", "redis://host:6379/0?ttl=never"} {
		_, err := export.Open(raw)
		assert.Error(t, err, raw)
	}
}

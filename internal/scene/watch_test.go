package scene

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeFile(t, "live.yaml", "nodes: [{name: a}]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		desc *Description
		err  error
	}
	results := make(chan result, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 10*time.Millisecond, func(d *Description, err error) {
			results <- result{d, err}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("nodes: [{name: a}, {name: b}]\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.err != nil || len(r.desc.Nodes) != 2 {
				continue
			}
			assert.Equal(t, "b", r.desc.Nodes[1].Name)
			cancel()
			assert.NoError(t, <-done)
			return
		case <-deadline:
			t.Fatal("no reload after writing the scene file")
		}
	}
}

func TestWatchUnsupportedFormat(t *testing.T) {
	err := Watch(context.Background(), "scene.txt", 0, func(*Description, error) {})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

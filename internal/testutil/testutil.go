// Package testutil provides shared helpers for compass tests.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/mpas-dev/compass/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a text logger writing into the given buffer.
func NewLogger(buf *SafeBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

// SingleNodeConfig builds a minimal machine config resolving to a
// single-node allocation with the given cores per node.
func SingleNodeConfig(coresPerNode int) *config.Config {
	cfg := config.New()
	cfg.SetString("parallel", "system", "single_node")
	cfg.SetInt("parallel", "cores_per_node", coresPerNode)
	return cfg
}

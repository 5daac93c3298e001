package testutil

import (
	"io"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreePortRange(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		start := FreePortRange(t, 3)
		assert.GreaterOrEqual(t, start, 20000)
		assert.Less(t, start+3, 60000)
		seen[start] = true

		for p := start; p < start+3; p++ {
			ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
			require.NoError(t, err)
			ln.Close()
		}
	}
	assert.Greater(t, len(seen), 1, "starts should vary between calls")
}

func TestChunkedReader(t *testing.T) {
	r := NewChunkedReader([]byte("abcdef"), 1, 2)

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "a", string(buf[:n]))

	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "bc", string(buf[:n]))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "def", string(rest))
}

func TestNewPeer(t *testing.T) {
	p := NewPeer("Bob", "writes code")
	assert.Equal(t, "Bob", p.Name())
	assert.Equal(t, "writes code", p.Instruction())
	assert.Zero(t, p.Port())
}

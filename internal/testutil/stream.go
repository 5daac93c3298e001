package testutil

import (
	"io"
	"math/rand"
	"net"
	"strconv"
	"testing"
)

// ChunkedReader hands out data in chunks of the given sizes, cycling through
// sizes until data is exhausted. It simulates a transport that splits a frame
// across many small reads.
type ChunkedReader struct {
	data  []byte
	sizes []int
	next  int
}

// NewChunkedReader creates a ChunkedReader. Sizes <= 0 are treated as 1.
func NewChunkedReader(data []byte, sizes ...int) *ChunkedReader {
	if len(sizes) == 0 {
		sizes = []int{1}
	}
	return &ChunkedReader{data: data, sizes: sizes}
}

// Read implements io.Reader.
func (r *ChunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.sizes[r.next%len(r.sizes)]
	r.next++
	if n <= 0 {
		n = 1
	}
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// FreePortRange returns a start port whose next n ports could all be bound on
// loopback at the time of the call. Tests use it to give each Ear a private
// range. Candidates are drawn at random so concurrently running test
// binaries rarely pick the same range.
func FreePortRange(t testing.TB, n int) int {
	t.Helper()
	const lo, hi = 20000, 60000
	for attempt := 0; attempt < 100; attempt++ {
		start := lo + rand.Intn(hi-lo-n)
		if rangeFree(start, n) {
			return start
		}
	}
	t.Fatalf("no free port range of size %d", n)
	return 0
}

func rangeFree(start, n int) bool {
	for p := start; p < start+n; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
		if err != nil {
			return false
		}
		ln.Close()
	}
	return true
}

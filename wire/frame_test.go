package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(Frame{Sender: "Alice", Kind: KindGreeting, Instruction: "Hi", Extra: "a.txt"})
	require.NoError(t, err)

	require.Len(t, data, 8+SenderWidth+4+2+5)
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(5), binary.BigEndian.Uint32(data[4:8]))

	sender := data[8 : 8+SenderWidth]
	assert.Equal(t, bytes.Repeat([]byte{0}, SenderWidth-5), sender[:SenderWidth-5], "sender must be left-padded with NUL")
	assert.Equal(t, "Alice", string(sender[SenderWidth-5:]))

	assert.Equal(t, uint32(KindGreeting), binary.BigEndian.Uint32(data[8+SenderWidth:HeaderSize]))
	assert.Equal(t, "Hia.txt", string(data[HeaderSize:]))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"empty bodies", Frame{Sender: "A", Kind: KindDefault}},
		{"ascii", Frame{Sender: "Bob", Kind: KindDefault, Instruction: "Hello", Extra: "x.py, y.py"}},
		{"utf8", Frame{Sender: "Zoë", Kind: KindGreeting, Instruction: "안녕하세요 👋", Extra: "データ"}},
		{"full width sender", Frame{Sender: strings.Repeat("s", SenderWidth), Instruction: "i"}},
		{"binary body", Frame{Sender: "bin", Instruction: "\x00\x01\xff", Extra: "\n\r\x00"}},
		{"large body", Frame{Sender: "big", Instruction: strings.Repeat("x", 1<<16), Extra: strings.Repeat("y", 70000)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.frame)
			require.NoError(t, err)
			assert.Len(t, data, tt.frame.Size())

			got, err := Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.frame, got)
		})
	}
}

func TestEncode_OversizedSender(t *testing.T) {
	_, err := Encode(Frame{Sender: strings.Repeat("n", SenderWidth+1)})
	assert.ErrorIs(t, err, ErrSenderTooLong)

	var buf bytes.Buffer
	err = WriteFrame(&buf, Frame{Sender: strings.Repeat("n", SenderWidth+1)})
	assert.ErrorIs(t, err, ErrSenderTooLong)
	assert.Zero(t, buf.Len(), "nothing may be written for an invalid frame")
}

func TestDecode_PartialReads(t *testing.T) {
	frame := Frame{Sender: "Alice", Kind: KindDefault, Instruction: "Hello there", Extra: "notes.md"}
	data, err := Encode(frame)
	require.NoError(t, err)

	t.Run("one byte at a time", func(t *testing.T) {
		got, err := Decode(iotest.OneByteReader(bytes.NewReader(data)))
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	})
	t.Run("uneven chunks", func(t *testing.T) {
		got, err := Decode(testutil.NewChunkedReader(data, 3, 1, 7, 2))
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	})
	t.Run("half reads", func(t *testing.T) {
		got, err := Decode(iotest.HalfReader(bytes.NewReader(data)))
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	})
}

func TestDecode_ConsumesExactlyOneFrame(t *testing.T) {
	first := Frame{Sender: "A", Instruction: "one"}
	second := Frame{Sender: "B", Instruction: "two", Extra: "e"}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, first))
	require.NoError(t, WriteFrame(&buf, second))

	got1, err := Decode(&buf)
	require.NoError(t, err)
	got2, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, first, got1)
	assert.Equal(t, second, got2)
	assert.Zero(t, buf.Len())
}

func TestDecode_Truncated(t *testing.T) {
	data, err := Encode(Frame{Sender: "Alice", Instruction: "Hello", Extra: "extra"})
	require.NoError(t, err)

	cuts := map[string]int{
		"empty":              0,
		"instruction_length": 2,
		"extra_length":       6,
		"sender":             8 + SenderWidth/2,
		"message_kind":       HeaderSize - 1,
		"instruction":        HeaderSize + 3,
		"extra":              len(data) - 1,
	}
	for field, n := range cuts {
		t.Run(field, func(t *testing.T) {
			_, err := Decode(testutil.NewChunkedReader(data[:n], 2))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMalformedFrame), "got %v", err)
		})
	}
}

func TestDecode_LengthPrefixBeyondStream(t *testing.T) {
	// A length prefix claiming far more data than is sent must fail cleanly.
	data, err := Encode(Frame{Sender: "A", Instruction: "abc"})
	require.NoError(t, err)
	binary.BigEndian.PutUint32(data[0:4], 1<<31)

	_, err = Decode(bytes.NewReader(data))
	assert.ErrorIs(t, err, core.ErrMalformedFrame)
}

func TestDecoder_MaxFieldSize(t *testing.T) {
	data, err := Encode(Frame{Sender: "A", Instruction: "0123456789"})
	require.NoError(t, err)

	_, err = Decoder{MaxFieldSize: 4}.Decode(bytes.NewReader(data))
	assert.ErrorIs(t, err, core.ErrMalformedFrame)

	got, err := Decoder{MaxFieldSize: 10}.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", got.Instruction)
}

func TestDecode_UnknownKindIsLeftToCaller(t *testing.T) {
	data, err := Encode(Frame{Sender: "A", Kind: Kind(99)})
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Kind(99), got.Kind)
	assert.False(t, got.Kind.Valid())
}

func TestKind(t *testing.T) {
	assert.True(t, KindDefault.Valid())
	assert.True(t, KindGreeting.Valid())
	assert.Equal(t, "default", KindDefault.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())

	k, err := ParseKind("greeting")
	require.NoError(t, err)
	assert.Equal(t, KindGreeting, k)
	_, err = ParseKind("shout")
	assert.Error(t, err)
}

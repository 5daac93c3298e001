package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/agentsociety/core"
)

// Field widths in bytes.
const (
	InstructionLengthWidth = 4
	ExtraLengthWidth       = 4
	SenderWidth            = 32
	KindWidth              = 4

	// HeaderSize is the fixed-size prefix preceding the instruction body.
	HeaderSize = InstructionLengthWidth + ExtraLengthWidth + SenderWidth + KindWidth
)

var (
	// ErrSenderTooLong is returned when a sender name does not fit SenderWidth.
	ErrSenderTooLong = errors.New("wire: sender name exceeds sender field width")
	// ErrFieldTooLarge is returned when a body does not fit a uint32 length prefix.
	ErrFieldTooLarge = errors.New("wire: field exceeds maximum encodable length")
)

// Frame is one decoded (or to-be-encoded) message.
type Frame struct {
	Sender      string
	Kind        Kind
	Instruction string
	Extra       string
}

// Size returns the encoded length of f in bytes.
func (f Frame) Size() int { return HeaderSize + len(f.Instruction) + len(f.Extra) }

// ValidateSender checks that name fits the sender field.
func ValidateSender(name string) error {
	if len(name) > SenderWidth {
		return fmt.Errorf("%w: %d > %d bytes", ErrSenderTooLong, len(name), SenderWidth)
	}
	return nil
}

// Encode returns the wire form of f.
func Encode(f Frame) ([]byte, error) {
	if err := ValidateSender(f.Sender); err != nil {
		return nil, err
	}
	if uint64(len(f.Instruction)) > math.MaxUint32 || uint64(len(f.Extra)) > math.MaxUint32 {
		return nil, ErrFieldTooLarge
	}

	buf := make([]byte, f.Size())
	binary.BigEndian.PutUint32(buf[0:], uint32(len(f.Instruction)))
	binary.BigEndian.PutUint32(buf[InstructionLengthWidth:], uint32(len(f.Extra)))

	// Right-justify: the NUL padding stays at the front of the field.
	senderEnd := InstructionLengthWidth + ExtraLengthWidth + SenderWidth
	copy(buf[senderEnd-len(f.Sender):senderEnd], f.Sender)

	binary.BigEndian.PutUint32(buf[senderEnd:], uint32(f.Kind))
	n := copy(buf[HeaderSize:], f.Instruction)
	copy(buf[HeaderSize+n:], f.Extra)
	return buf, nil
}

// WriteFrame encodes f and writes it to w in a single Write call.
func WriteFrame(w io.Writer, f Frame) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	return nil
}

// Decoder reads frames from a stream.
type Decoder struct {
	// MaxFieldSize caps each of the instruction and extra bodies. Zero means
	// no cap beyond the uint32 length prefix.
	MaxFieldSize uint32
}

// Decode reads exactly one frame from r using a Decoder without limits.
func Decode(r io.Reader) (Frame, error) {
	return Decoder{}.Decode(r)
}

// Decode reads exactly one frame from r. Every field read loops until the
// field is complete, so transports delivering the frame in arbitrarily small
// chunks are fine. A stream that ends early yields core.ErrMalformedFrame.
func (d Decoder) Decode(r io.Reader) (Frame, error) {
	var header [HeaderSize]byte
	if err := readField(r, header[:InstructionLengthWidth], "instruction_length"); err != nil {
		return Frame{}, err
	}
	off := InstructionLengthWidth
	if err := readField(r, header[off:off+ExtraLengthWidth], "extra_length"); err != nil {
		return Frame{}, err
	}
	off += ExtraLengthWidth
	if err := readField(r, header[off:off+SenderWidth], "sender"); err != nil {
		return Frame{}, err
	}
	off += SenderWidth
	if err := readField(r, header[off:off+KindWidth], "message_kind"); err != nil {
		return Frame{}, err
	}

	instructionLen := binary.BigEndian.Uint32(header[0:])
	extraLen := binary.BigEndian.Uint32(header[InstructionLengthWidth:])
	sender := header[InstructionLengthWidth+ExtraLengthWidth : off]

	instruction, err := d.readBody(r, instructionLen, "instruction")
	if err != nil {
		return Frame{}, err
	}
	extra, err := d.readBody(r, extraLen, "extra")
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Sender:      string(bytes.TrimLeft(sender, "\x00")),
		Kind:        Kind(binary.BigEndian.Uint32(header[off:])),
		Instruction: instruction,
		Extra:       extra,
	}, nil
}

func readField(r io.Reader, dst []byte, field string) error {
	if _, err := io.ReadFull(r, dst); err != nil {
		return malformed(field, err)
	}
	return nil
}

// readBody copies n bytes through a growing buffer rather than allocating n
// bytes up front, so a bogus length prefix costs only what actually arrives.
func (d Decoder) readBody(r io.Reader, n uint32, field string) (string, error) {
	if n == 0 {
		return "", nil
	}
	if d.MaxFieldSize > 0 && n > d.MaxFieldSize {
		return "", core.Errorf("wire.decode", core.ErrMalformedFrame, "%s length %d exceeds limit %d", field, n, d.MaxFieldSize)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return "", malformed(field, err)
	}
	return buf.String(), nil
}

func malformed(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return core.Errorf("wire.decode", core.ErrMalformedFrame, "stream ended while reading %s", field)
	}
	return core.NewError("wire.decode", core.ErrMalformedFrame, fmt.Sprintf("reading %s: %v", field, err))
}

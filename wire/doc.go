// Package wire implements the binary frame exchanged between agents.
//
// A frame carries one message and is laid out as:
//
//	instruction_length  uint32 big-endian
//	extra_length        uint32 big-endian
//	sender              SenderWidth bytes, right-justified, left-padded with NUL
//	kind                uint32 big-endian
//	instruction         instruction_length bytes (UTF-8)
//	extra               extra_length bytes (UTF-8)
//
// The layout is the interoperability contract between agent processes and
// must be preserved bit for bit. The package performs no I/O of its own
// beyond the io.Reader / io.Writer it is handed.
package wire

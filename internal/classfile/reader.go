package classfile

import (
	"encoding/binary"
	"io"

	"github.com/standardbeagle/classgraph/internal/cgerrors"
)

// byteReader wraps an io.Reader with big-endian fixed-width helpers and a
// sticky error, so a chain of reads can be issued without checking the
// error after every call. Grounded on the teacher-corpus idiom of a small
// hand-rolled binary cursor rather than a general-purpose parser
// combinator (see other_examples' class-file readers for the same shape).
type byteReader struct {
	r    io.Reader
	path string
	err  error
}

func newByteReader(r io.Reader, path string) *byteReader {
	return &byteReader{r: r, path: path}
}

func (b *byteReader) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *byteReader) bytes(n int) []byte {
	if b.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		b.fail(cgerrors.NewArtifactError(b.path, cgerrors.ErrUnexpectedEOF))
		return nil
	}
	return buf
}

func (b *byteReader) u1() uint8 {
	buf := b.bytes(1)
	if b.err != nil {
		return 0
	}
	return buf[0]
}

func (b *byteReader) u2() uint16 {
	buf := b.bytes(2)
	if b.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(buf)
}

func (b *byteReader) u4() uint32 {
	buf := b.bytes(4)
	if b.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(buf)
}

func (b *byteReader) u8() uint64 {
	buf := b.bytes(8)
	if b.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(buf)
}

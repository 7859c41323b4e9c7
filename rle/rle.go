/*
Package rle implements the run-length byte compression scheme understood
by the console BIOS.

A compressed stream starts with a four byte header: a fixed tag byte
followed by the uncompressed size as a 24-bit little-endian value. The
body is a sequence of chunks, each introduced by a control byte. With
the high bit set the low seven bits encode a run of 3 to 130 copies of
the single byte that follows; with the high bit clear they encode 1 to
128 verbatim bytes. The stream is zero padded to a multiple of four
bytes.
*/
package rle

import (
	"errors"
	"fmt"
)

// Tag is the header byte marking a stream as RLE compressed.
const Tag = 0x30

const (
	headerSize = 4
	maxSize    = 1<<24 - 1

	minRun = 3
	maxRun = minRun + 0x7f

	maxLiteral = 0x80

	alignment = 4
)

var (
	errBadTag    = errors.New("rle: not an RLE compressed stream")
	errTruncated = errors.New("rle: truncated stream")
)

// Compress encodes data and returns the framed, padded stream. Runs of
// identical bytes are extended greedily up to 130 bytes; runs shorter
// than three bytes are folded into the surrounding literal chunks since
// the two byte run encoding saves nothing there.
func Compress(data []byte) ([]byte, error) {
	if len(data) > maxSize {
		return nil, fmt.Errorf("rle: %d bytes exceeds the %d byte size field", len(data), maxSize)
	}

	out := make([]byte, 0, headerSize+len(data)+len(data)>>6+alignment)
	out = append(out, Tag, byte(len(data)), byte(len(data)>>8), byte(len(data)>>16))

	flush := func(lit []byte) {
		for len(lit) > 0 {
			n := len(lit)
			if n > maxLiteral {
				n = maxLiteral
			}
			out = append(out, byte(n-1))
			out = append(out, lit[:n]...)
			lit = lit[n:]
		}
	}

	litStart := 0
	for i := 0; i < len(data); {
		j := i + 1
		for j < len(data) && data[j] == data[i] && j-i < maxRun {
			j++
		}
		if j-i >= minRun {
			flush(data[litStart:i])
			out = append(out, byte(0x80|(j-i-minRun)), data[i])
			litStart = j
		}
		i = j
	}
	flush(data[litStart:])

	for len(out)%alignment != 0 {
		out = append(out, 0)
	}
	return out, nil
}

// Decompress decodes a stream produced by Compress, ignoring any
// trailing alignment padding.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, errTruncated
	}
	if data[0] != Tag {
		return nil, errBadTag
	}
	size := int(data[1]) | int(data[2])<<8 | int(data[3])<<16

	out := make([]byte, 0, size)
	i := headerSize
	for len(out) < size {
		if i >= len(data) {
			return nil, errTruncated
		}
		control := data[i]
		i++
		if control&0x80 != 0 {
			if i >= len(data) {
				return nil, errTruncated
			}
			n := int(control&0x7f) + minRun
			for ; n > 0; n-- {
				out = append(out, data[i])
			}
			i++
		} else {
			n := int(control) + 1
			if i+n > len(data) {
				return nil, errTruncated
			}
			out = append(out, data[i:i+n]...)
			i += n
		}
	}
	if len(out) != size {
		return nil, fmt.Errorf("rle: chunk overruns declared size of %d bytes", size)
	}
	return out, nil
}

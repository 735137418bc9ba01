// Package codec packs bytes into a Huffman-coded bitstream and walks a
// Huffman tree to unpack it again.
//
// Codes are written most significant bit first. The last byte is padded with
// zero bits, so a Stream carries the exact number of meaningful bits and
// the decoder never interprets padding as a symbol.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/KitchenMishap/pudding-squash/huffman"
)

var (
	// ErrDictionaryMiss means a byte has no code. The dictionary was not
	// derived from the data being encoded.
	ErrDictionaryMiss = errors.New("codec: symbol missing from dictionary")
	// ErrTruncatedStream means the bits ran out part way along a path.
	ErrTruncatedStream = errors.New("codec: truncated stream")
	// ErrInvalidCode means the bits lead off the tree or into a sentinel leaf.
	ErrInvalidCode = errors.New("codec: bits do not match the tree")
)

// Codebook gives the code for a symbol. *huffman.Dictionary satisfies it.
type Codebook interface {
	Lookup(symbol byte) (huffman.BitCode, bool)
}

// Stream is a packed bitstream together with its length in bits.
type Stream struct {
	Data []byte
	Bits int64
}

// Padding is the number of zero bits after the last code.
func (s Stream) Padding() int {
	return int(int64(len(s.Data))*8 - s.Bits)
}

// Encode packs data into a new Stream.
func Encode(data []byte, book Codebook) (Stream, error) {
	buf := new(bytes.Buffer)
	bits, err := EncodeTo(buf, data, book)
	if err != nil {
		return Stream{}, err
	}
	return Stream{Data: buf.Bytes(), Bits: bits}, nil
}

// EncodeTo packs data into w and returns the number of code bits written,
// not counting padding. Every byte of data is checked against book before
// anything is written.
func EncodeTo(w io.Writer, data []byte, book Codebook) (int64, error) {
	if err := checkCoverage(data, book); err != nil {
		return 0, err
	}

	bw := bitio.NewWriter(w)
	bits := int64(0)
	for _, b := range data {
		code, _ := book.Lookup(b)
		if err := bw.WriteBits(code.Bits, uint8(code.Length)); err != nil {
			return bits, err
		}
		bits += int64(code.Length)
	}
	// Close pads the final partial byte with zeros and writes it out
	if err := bw.Close(); err != nil {
		return bits, err
	}
	return bits, nil
}

func checkCoverage(data []byte, book Codebook) error {
	var seen [256]bool
	for i, b := range data {
		if seen[b] {
			continue
		}
		if _, ok := book.Lookup(b); !ok {
			return fmt.Errorf("%w: symbol 0x%02x at offset %d", ErrDictionaryMiss, b, i)
		}
		seen[b] = true
	}
	return nil
}

// Decode walks root for each of the s.Bits bits of s.Data and returns the
// symbols reached. Running out of bits away from the root is an error.
func Decode(s Stream, root *huffman.Node) ([]byte, error) {
	if root == nil {
		return nil, ErrInvalidCode
	}
	if s.Bits < 0 || int64(len(s.Data))*8 < s.Bits {
		return nil, fmt.Errorf("%w: %d bits claimed, %d bytes present", ErrTruncatedStream, s.Bits, len(s.Data))
	}

	r := bitio.NewReader(bytes.NewReader(s.Data))
	out := make([]byte, 0, len(s.Data))
	current := root
	for i := int64(0); i < s.Bits; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return out, fmt.Errorf("%w: bit %d: %v", ErrTruncatedStream, i, err)
		}
		current, err = step(current, bit)
		if err != nil {
			return out, fmt.Errorf("%w at bit %d (decoded %d bytes)", err, i, len(out))
		}
		if current.IsLeaf() {
			out = append(out, current.Symbol)
			current = root
		}
	}
	if current != root {
		return out, fmt.Errorf("%w: stream ends inside a code (decoded %d bytes)", ErrTruncatedStream, len(out))
	}
	return out, nil
}

// DecodeN decodes exactly n symbols from packed and ignores whatever
// follows them.
func DecodeN(packed []byte, root *huffman.Node, n int) ([]byte, error) {
	if root == nil {
		return nil, ErrInvalidCode
	}
	r := bitio.NewReader(bytes.NewReader(packed))
	out := make([]byte, 0, n)
	current := root
	for len(out) < n {
		bit, err := r.ReadBool()
		if err == io.EOF {
			return out, fmt.Errorf("%w: %d of %d symbols decoded", ErrTruncatedStream, len(out), n)
		}
		if err != nil {
			return out, err
		}
		current, err = step(current, bit)
		if err != nil {
			return out, fmt.Errorf("%w (decoded %d bytes)", err, len(out))
		}
		if current.IsLeaf() {
			out = append(out, current.Symbol)
			current = root
		}
	}
	return out, nil
}

func step(n *huffman.Node, bit bool) (*huffman.Node, error) {
	next := n.Left
	if bit {
		next = n.Right
	}
	if next == nil || next.Sentinel {
		return nil, ErrInvalidCode
	}
	return next, nil
}

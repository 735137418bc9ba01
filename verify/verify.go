// Package verify decodes a freshly encoded stream and checks that it gives
// back the input.
package verify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/KitchenMishap/pudding-squash/codec"
	"github.com/KitchenMishap/pudding-squash/huffman"
)

var ErrMismatch = errors.New("verify: decoded output differs from input")

type Report struct {
	Bytes   int
	Digest  uint64 // xxhash64 of the decoded bytes
	Decoded []byte
}

// RoundTrip decodes s with root and compares the result with original by
// length and xxhash64 digest.
func RoundTrip(original []byte, s codec.Stream, root *huffman.Node) (Report, error) {
	decoded, err := codec.Decode(s, root)
	if err != nil {
		return Report{}, err
	}
	report := Report{Bytes: len(decoded), Digest: Digest(decoded), Decoded: decoded}
	if len(decoded) != len(original) || report.Digest != Digest(original) {
		return report, fmt.Errorf("%w: %d bytes in, %d bytes out, first difference at offset %d",
			ErrMismatch, len(original), len(decoded), FirstDifference(original, decoded))
	}
	return report, nil
}

// Digest is the xxhash64 of b.
func Digest(b []byte) uint64 { return xxhash.Sum64(b) }

// FirstDifference is the first offset at which a and b differ, the length
// of the shorter one if one is a prefix of the other, or -1 if they are
// equal.
func FirstDifference(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// DigestFile streams the file at path through xxhash64.
func DigestFile(path string) (digest uint64, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	h := xxhash.New()
	size, err = io.Copy(h, f)
	if err != nil {
		return 0, size, err
	}
	return h.Sum64(), size, nil
}

// CheckFile confirms the file at path has the given length and digest.
func CheckFile(path string, wantSize int64, wantDigest uint64) error {
	digest, size, err := DigestFile(path)
	if err != nil {
		return err
	}
	if size != wantSize || digest != wantDigest {
		return fmt.Errorf("%w: %s is %d bytes (xxhash %016x), want %d bytes (xxhash %016x)",
			ErrMismatch, path, size, digest, wantSize, wantDigest)
	}
	return nil
}

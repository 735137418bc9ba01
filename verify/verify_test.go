package verify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KitchenMishap/pudding-squash/codec"
	"github.com/KitchenMishap/pudding-squash/histogram"
	"github.com/KitchenMishap/pudding-squash/huffman"
	"github.com/KitchenMishap/pudding-squash/verify"
)

func encode(t *testing.T, data []byte) (codec.Stream, *huffman.Node) {
	t.Helper()
	root, err := huffman.BuildTree(histogram.Count(data))
	require.NoError(t, err)
	dict, err := huffman.NewDictionary(root)
	require.NoError(t, err)
	s, err := codec.Encode(data, &dict)
	require.NoError(t, err)
	return s, root
}

func TestRoundTrip(t *testing.T) {
	data := []byte("mississippi river")
	s, root := encode(t, data)

	report, err := verify.RoundTrip(data, s, root)
	require.NoError(t, err)
	require.Equal(t, len(data), report.Bytes)
	require.Equal(t, data, report.Decoded)
	require.Equal(t, verify.Digest(data), report.Digest)
}

func TestRoundTripMismatch(t *testing.T) {
	data := []byte("mississippi")
	s, root := encode(t, data)

	_, err := verify.RoundTrip([]byte("mississippo"), s, root)
	require.ErrorIs(t, err, verify.ErrMismatch)
	require.Contains(t, err.Error(), "offset 10")
}

func TestRoundTripDecodeError(t *testing.T) {
	data := []byte("mississippi")
	s, root := encode(t, data)
	s.Bits = int64(len(s.Data))*8 + 1
	_, err := verify.RoundTrip(data, s, root)
	require.ErrorIs(t, err, codec.ErrTruncatedStream)
}

func TestFirstDifference(t *testing.T) {
	require.Equal(t, -1, verify.FirstDifference([]byte("abc"), []byte("abc")))
	require.Equal(t, -1, verify.FirstDifference(nil, nil))
	require.Equal(t, 1, verify.FirstDifference([]byte("abc"), []byte("axc")))
	require.Equal(t, 2, verify.FirstDifference([]byte("ab"), []byte("abc")))
	require.Equal(t, 0, verify.FirstDifference(nil, []byte("a")))
}

func TestCheckFile(t *testing.T) {
	data := []byte("some decoded bytes")
	path := filepath.Join(t.TempDir(), "decoded")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	digest, size, err := verify.DigestFile(path)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)
	require.Equal(t, verify.Digest(data), digest)

	require.NoError(t, verify.CheckFile(path, int64(len(data)), verify.Digest(data)))
	require.ErrorIs(t, verify.CheckFile(path, int64(len(data)), verify.Digest([]byte("other"))), verify.ErrMismatch)

	_, _, err = verify.DigestFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

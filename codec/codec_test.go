package codec_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KitchenMishap/pudding-squash/codec"
	"github.com/KitchenMishap/pudding-squash/histogram"
	"github.com/KitchenMishap/pudding-squash/huffman"
)

const randSeed = 0x5a025ca11825a5e7

func build(t *testing.T, table histogram.Table) (*huffman.Node, *huffman.Dictionary) {
	t.Helper()
	root, err := huffman.BuildTree(table)
	require.NoError(t, err)
	dict, err := huffman.NewDictionary(root)
	require.NoError(t, err)
	return root, &dict
}

func roundTrip(t *testing.T, data []byte, table histogram.Table) codec.Stream {
	t.Helper()
	root, dict := build(t, table)
	s, err := codec.Encode(data, dict)
	require.NoError(t, err)
	require.Equal(t, (s.Bits+7)/8, int64(len(s.Data)))

	got, err := codec.Decode(s, root)
	require.NoError(t, err)
	require.Equal(t, data, got)

	got, err = codec.DecodeN(s.Data, root, len(data))
	require.NoError(t, err)
	require.Equal(t, data, got)
	return s
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))
	inputs := [][]byte{
		[]byte("a"),
		[]byte("ab"),
		[]byte("abracadabra"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0x00, 0xff}, 33),
	}
	for i := 0; i < 20; i++ {
		data := make([]byte, 1+rng.Intn(3000))
		alphabet := 1 + rng.Intn(256)
		for j := range data {
			data[j] = byte(rng.Intn(alphabet))
		}
		inputs = append(inputs, data)
	}

	for i, data := range inputs {
		roundTrip(t, data, histogram.Count(data))
		// 1, 2 and a count that does not divide the length
		for _, threads := range []int{1, 2, 7} {
			table, err := histogram.CountParallel(context.Background(), data, threads)
			require.NoError(t, err, "#%d", i)
			roundTrip(t, data, table)
		}
	}
}

func TestEncodeBits(t *testing.T) {
	// c=0, a=10, b=11
	_, dict := build(t, histogram.Count([]byte("abbccc")))

	s, err := codec.Encode([]byte("ca"), dict)
	require.NoError(t, err)
	require.Equal(t, []byte{0b01000000}, s.Data)
	require.Equal(t, int64(3), s.Bits)
	require.Equal(t, 5, s.Padding())

	s, err = codec.Encode([]byte("abbccc"), dict)
	require.NoError(t, err)
	require.Equal(t, []byte{0b10111100, 0b00000000}, s.Data)
	require.Equal(t, int64(9), s.Bits)
}

func TestEncodeEmpty(t *testing.T) {
	_, dict := build(t, histogram.Count([]byte("x")))
	s, err := codec.Encode(nil, dict)
	require.NoError(t, err)
	require.Empty(t, s.Data)
	require.Equal(t, int64(0), s.Bits)
}

func TestSkewedInput(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x41}, 1000), 0x42)
	s := roundTrip(t, data, histogram.Count(data))
	require.LessOrEqual(t, len(s.Data), len(data))
	require.Equal(t, int64(1001), s.Bits)
}

func TestSingleSymbol(t *testing.T) {
	data := make([]byte, 50)
	s := roundTrip(t, data, histogram.Count(data))
	require.Equal(t, int64(50), s.Bits)
	require.Len(t, s.Data, 7)
}

// The padding of "ca" is five zero bits, each of which alone is the code for
// 'c'. Bounded decoding must not turn them into extra symbols.
func TestPaddingIsNotDecoded(t *testing.T) {
	root, dict := build(t, histogram.Count([]byte("abbccc")))
	s, err := codec.Encode([]byte("ca"), dict)
	require.NoError(t, err)

	got, err := codec.Decode(s, root)
	require.NoError(t, err)
	require.Equal(t, []byte("ca"), got)

	got, err = codec.DecodeN(s.Data, root, 2)
	require.NoError(t, err)
	require.Equal(t, []byte("ca"), got)

	// Reading every bit, padding included, is what an unbounded decoder would do.
	got, err = codec.Decode(codec.Stream{Data: s.Data, Bits: 8}, root)
	require.NoError(t, err)
	require.Equal(t, []byte("caccccc"), got)
}

func TestDictionaryMiss(t *testing.T) {
	_, dict := build(t, histogram.Count([]byte("aaa")))
	var buf bytes.Buffer
	_, err := codec.EncodeTo(&buf, []byte("aab"), dict)
	require.ErrorIs(t, err, codec.ErrDictionaryMiss)
	require.Zero(t, buf.Len())
}

func TestTruncatedStream(t *testing.T) {
	root, dict := build(t, histogram.Count([]byte("abbccc")))
	s, err := codec.Encode([]byte("ca"), dict)
	require.NoError(t, err)

	// Stops between the two bits of 'a'
	_, err = codec.Decode(codec.Stream{Data: s.Data, Bits: 2}, root)
	require.ErrorIs(t, err, codec.ErrTruncatedStream)

	_, err = codec.Decode(codec.Stream{Data: s.Data, Bits: 9}, root)
	require.ErrorIs(t, err, codec.ErrTruncatedStream)

	_, err = codec.DecodeN(s.Data, root, 9)
	require.ErrorIs(t, err, codec.ErrTruncatedStream)
}

func TestInvalidCode(t *testing.T) {
	root, _ := build(t, histogram.Count([]byte("zzzz")))
	// The only code is 0; a 1 leads to the sentinel.
	_, err := codec.Decode(codec.Stream{Data: []byte{0b01000000}, Bits: 2}, root)
	require.ErrorIs(t, err, codec.ErrInvalidCode)

	_, err = codec.Decode(codec.Stream{}, nil)
	require.ErrorIs(t, err, codec.ErrInvalidCode)
}

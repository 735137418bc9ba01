package compress

import (
	"fmt"
	"sort"

	"github.com/KitchenMishap/pudding-squash/histogram"
	"github.com/KitchenMishap/pudding-squash/huffman"
)

type CompressionStats struct {
	InputBytes   int64
	TotalBits    uint64 // Sum of count * code length over all symbols
	NaiveBits    uint64 // 8 bits per input byte
	Symbols      int    // Distinct symbols
	ShortestCode int
	LongestCode  int
}

// PackedBytes is the encoded size once the last byte is padded out.
func (s CompressionStats) PackedBytes() uint64 { return (s.TotalBits + 7) / 8 }

// Ratio is packed size over input size. Zero for empty input.
func (s CompressionStats) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.PackedBytes()) / float64(s.InputBytes)
}

// BitsPerSymbol is the average code length weighted by frequency.
func (s CompressionStats) BitsPerSymbol() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.TotalBits) / float64(s.InputBytes)
}

// SimulateCompression works out the encoded size from the table and the
// code lengths without encoding anything. The dictionary must have been
// derived from a tree built on the same table.
func SimulateCompression(table histogram.Table, dict *huffman.Dictionary) CompressionStats {
	var stats CompressionStats
	stats.InputBytes = table.Total()
	stats.NaiveBits = uint64(stats.InputBytes) * 8

	for _, symbol := range table.Present() {
		code, ok := dict.Lookup(symbol)
		if !ok {
			panic(fmt.Sprintf("missing code for symbol 0x%02x", symbol))
		}
		stats.TotalBits += uint64(table.Count(symbol)) * uint64(code.Length)
		stats.Symbols++
		if stats.ShortestCode == 0 || code.Length < stats.ShortestCode {
			stats.ShortestCode = code.Length
		}
		if code.Length > stats.LongestCode {
			stats.LongestCode = code.Length
		}
	}
	return stats
}

type Entry struct {
	Symbol byte
	Count  int64
}

// TopSymbols returns up to n of the most frequent symbols, most frequent
// first. Equal counts are ordered by symbol value.
func TopSymbols(table histogram.Table, n int) []Entry {
	entries := make([]Entry, 0, histogram.Symbols)
	for _, symbol := range table.Present() {
		entries = append(entries, Entry{Symbol: symbol, Count: table.Count(symbol)})
	}
	// Sort
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Symbol < entries[j].Symbol
	})
	// Truncate
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

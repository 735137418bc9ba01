package jobs

import (
	"github.com/c2h5oh/datasize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KitchenMishap/pudding-squash/compress"
)

const topSymbols = 8

func (c *Compressor) printReport(res *Result) {
	p := message.NewPrinter(language.English) // For commas between thousands
	stats := res.Stats

	p.Fprintf(c.out, "Input:          %d bytes (%s)\n", stats.InputBytes, datasize.ByteSize(stats.InputBytes).HumanReadable())
	p.Fprintf(c.out, "Encoded:        %d bytes, %d bits, %d padding bits\n", len(res.Stream.Data), res.Stream.Bits, res.Stream.Padding())
	p.Fprintf(c.out, "Fixed width:    %d bits\n", stats.NaiveBits)
	p.Fprintf(c.out, "Ratio:          %.3f (%.3f bits per symbol)\n", stats.Ratio(), stats.BitsPerSymbol())
	p.Fprintf(c.out, "Symbols:        %d, code lengths %d to %d\n", stats.Symbols, stats.ShortestCode, stats.LongestCode)

	p.Fprintf(c.out, "Most frequent:\n")
	for _, entry := range compress.TopSymbols(res.Table, topSymbols) {
		code, _ := res.Dict.Lookup(entry.Symbol)
		p.Fprintf(c.out, "  0x%02x %12d  %s\n", entry.Symbol, entry.Count, code)
	}
	if res.Verified {
		p.Fprintf(c.out, "Round trip:     ok\n")
	}
	p.Fprintf(c.out, "Elapsed:        %v\n", res.Elapsed)
}

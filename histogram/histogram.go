// Package histogram counts byte frequencies, either in one pass or by
// splitting the input into chunks that are counted concurrently.
package histogram

// Symbols is the size of the byte alphabet.
const Symbols = 256

// Table maps each byte value to the number of times it was seen.
// A Table is a plain value; once returned by Count or CountParallel
// nothing modifies it.
type Table struct {
	counts [Symbols]int64
}

// Count scans data in order and returns its frequency table.
// Empty input gives an empty table.
func Count(data []byte) Table {
	var t Table
	t.scan(data)
	return t
}

func (t *Table) scan(data []byte) {
	for _, b := range data {
		t.counts[b]++
	}
}

// add folds other into t. Addition is commutative, so the order in which
// partial tables arrive does not matter.
func (t *Table) add(other *Table) {
	for i, c := range other.counts {
		t.counts[i] += c
	}
}

// Count returns how often symbol occurred.
func (t Table) Count(symbol byte) int64 { return t.counts[symbol] }

// Len is the number of distinct symbols with a non-zero count.
func (t Table) Len() int {
	n := 0
	for _, c := range t.counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total is the sum of all counts, which equals the number of bytes scanned.
func (t Table) Total() int64 {
	total := int64(0)
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Empty reports whether no bytes were counted.
func (t Table) Empty() bool { return t.Len() == 0 }

// Present returns the symbols with a non-zero count, in ascending order.
func (t Table) Present() []byte {
	symbols := make([]byte, 0, Symbols)
	for i, c := range t.counts {
		if c > 0 {
			symbols = append(symbols, byte(i))
		}
	}
	return symbols
}

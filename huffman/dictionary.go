package huffman

import (
	"fmt"
	"strings"
)

// The compressed representation
type BitCode struct {
	Bits   uint64 // The path from the root, first step in the highest of the Length bits
	Length int    // How many bits used
}

// Bit returns the i'th step of the path, 0 for left and 1 for right.
func (c BitCode) Bit(i int) uint64 {
	return (c.Bits >> uint(c.Length-1-i)) & 1
}

// HasPrefix reports whether p is a prefix of c. Every code is a prefix of
// itself.
func (c BitCode) HasPrefix(p BitCode) bool {
	if p.Length > c.Length {
		return false
	}
	return c.Bits>>uint(c.Length-p.Length) == p.Bits
}

func (c BitCode) String() string {
	var sb strings.Builder
	for i := 0; i < c.Length; i++ {
		if c.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// GenerateBitCodes walks the tree under node and stores the code of every
// symbol leaf in table. currentBits and depth describe the path to node.
func GenerateBitCodes(node *Node, currentBits uint64, depth int, table map[byte]BitCode) error {
	if node.IsLeaf() {
		if node.Sentinel {
			return nil
		}
		if depth == 0 {
			return ErrDegenerateTree
		}
		// Leaf node - store the result
		table[node.Symbol] = BitCode{Bits: currentBits, Length: depth}
		return nil
	}
	if depth >= 64 {
		return ErrCodeTooLong
	}
	// Left = 0, Right = 1
	if node.Left != nil {
		if err := GenerateBitCodes(node.Left, currentBits<<1, depth+1, table); err != nil {
			return err
		}
	}
	if node.Right != nil {
		if err := GenerateBitCodes(node.Right, (currentBits<<1)|1, depth+1, table); err != nil {
			return err
		}
	}
	return nil
}

// Dictionary holds the code of every symbol present in a tree.
// A zero Length marks a symbol with no code.
type Dictionary struct {
	codes [256]BitCode
}

// NewDictionary derives the code of each symbol leaf from its path in the
// tree rooted at root.
func NewDictionary(root *Node) (Dictionary, error) {
	var d Dictionary
	if root == nil {
		return d, ErrEmptyFrequencyTable
	}
	table := make(map[byte]BitCode, 256)
	if err := GenerateBitCodes(root, 0, 0, table); err != nil {
		return d, err
	}
	for symbol, code := range table {
		d.codes[symbol] = code
	}
	return d, nil
}

// Lookup returns the code for symbol.
func (d *Dictionary) Lookup(symbol byte) (BitCode, bool) {
	code := d.codes[symbol]
	return code, code.Length > 0
}

// Len is the number of symbols with a code.
func (d *Dictionary) Len() int {
	n := 0
	for _, code := range d.codes {
		if code.Length > 0 {
			n++
		}
	}
	return n
}

// Symbols lists the coded symbols in ascending order.
func (d *Dictionary) Symbols() []byte {
	symbols := make([]byte, 0, 256)
	for i, code := range d.codes {
		if code.Length > 0 {
			symbols = append(symbols, byte(i))
		}
	}
	return symbols
}

func (d *Dictionary) Map() map[byte]BitCode {
	m := make(map[byte]BitCode)
	for _, s := range d.Symbols() {
		m[s] = d.codes[s]
	}
	return m
}

func (d *Dictionary) String() string {
	var sb strings.Builder
	for _, s := range d.Symbols() {
		fmt.Fprintf(&sb, "%02x: %s\n", s, d.codes[s])
	}
	return sb.String()
}

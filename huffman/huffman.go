// Package huffman builds Huffman trees over byte symbols and derives the
// prefix code for each symbol from the tree shape.
package huffman

import (
	"container/heap"
	"errors"
)

var (
	ErrEmptyFrequencyTable = errors.New("huffman: empty frequency table")
	ErrDegenerateTree      = errors.New("huffman: root is a leaf")
	ErrCodeTooLong         = errors.New("huffman: codeword longer than 64 bits")
)

// Frequencies is anything that can report a count per byte value.
// histogram.Table satisfies it.
type Frequencies interface {
	Count(symbol byte) int64
}

type Node struct {
	Symbol      byte  // Only meaningful on a leaf
	Freq        int64 // How often it appeared, or the sum over the children
	Left, Right *Node
	Sentinel    bool // Zero-frequency filler leaf, owns no symbol
	seq         int  // Creation order, breaks frequency ties
}

func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// PriorityQueue orders nodes by frequency, then by creation order, so that
// equal frequencies always merge in the same order.
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Freq != pq[j].Freq {
		return pq[i].Freq < pq[j].Freq
	}
	return pq[i].seq < pq[j].seq
}
func (pq PriorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *PriorityQueue) Push(x interface{}) { *pq = append(*pq, x.(*Node)) }
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// BuildTree merges the two least frequent nodes until a single root is left.
// The first node taken becomes the left child. Leaves are created in
// ascending symbol order and every parent is newer than anything before it,
// which makes the result independent of how the table was produced.
//
// A table with a single symbol still gets an internal root: the symbol is
// its left child and a sentinel leaf its right child, so the symbol is coded
// as a single 0 bit.
func BuildTree(freqs Frequencies) (*Node, error) {
	pq := make(PriorityQueue, 0, 256)
	seq := 0
	for s := 0; s < 256; s++ {
		freq := freqs.Count(byte(s))
		if freq <= 0 {
			continue
		}
		pq = append(pq, &Node{Symbol: byte(s), Freq: freq, seq: seq})
		seq++
	}

	switch len(pq) {
	case 0:
		return nil, ErrEmptyFrequencyTable
	case 1:
		leaf := pq[0]
		return &Node{
			Freq:  leaf.Freq,
			Left:  leaf,
			Right: &Node{Sentinel: true, seq: seq},
			seq:   seq + 1,
		}, nil
	}

	heap.Init(&pq)
	for pq.Len() > 1 {
		left := heap.Pop(&pq).(*Node)
		right := heap.Pop(&pq).(*Node)

		// Create a parent with sum of frequencies
		parent := &Node{
			Freq:  left.Freq + right.Freq,
			Left:  left,
			Right: right,
			seq:   seq,
		}
		seq++
		heap.Push(&pq, parent)
	}
	return heap.Pop(&pq).(*Node), nil
}

// Leaves returns the number of symbol-owning leaves under n.
func (n *Node) Leaves() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		if n.Sentinel {
			return 0
		}
		return 1
	}
	return n.Left.Leaves() + n.Right.Leaves()
}

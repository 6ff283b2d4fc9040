package trie

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

type node struct {
	children  map[rune]*node
	isWord    bool
	frequency uint32
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is a lowercase-normalized prefix tree.
// It is not safe for concurrent use.
type Trie struct {
	root      *node
	wordCount int
	nodeCount int
}

// New creates an empty Trie.
func New() *Trie {
	return &Trie{root: newNode(), nodeCount: 1}
}

// Insert adds word with the given frequency. Repeated inserts of the same word
// add to its frequency, saturating at math.MaxUint32. Empty words and a zero
// frequency are ignored.
func (t *Trie) Insert(word string, frequency uint32) {
	word = normalize(word)
	if word == "" || frequency == 0 {
		return
	}

	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
			t.nodeCount++
		}
		n = child
	}

	if !n.isWord {
		n.isWord = true
		t.wordCount++
	}
	n.frequency = uint32(min(uint64(n.frequency)+uint64(frequency), math.MaxUint32))
}

// InsertWord adds word with frequency 1.
func (t *Trie) InsertWord(word string) { t.Insert(word, 1) }

// Search reports whether word was inserted.
func (t *Trie) Search(word string) bool {
	n := t.find(normalize(word))
	return n != nil && n.isWord
}

// StartsWith reports whether any inserted word has the given prefix.
// The empty prefix matches an empty trie as well.
func (t *Trie) StartsWith(prefix string) bool {
	return t.find(normalize(prefix)) != nil
}

// Frequency returns the accumulated frequency of word, or 0 if absent.
func (t *Trie) Frequency(word string) uint32 {
	if n := t.find(normalize(word)); n != nil {
		return n.frequency
	}
	return 0
}

// Suggest returns up to limit words starting with prefix, ordered by
// descending frequency and then lexicographically.
func (t *Trie) Suggest(prefix string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	prefix = normalize(prefix)
	start := t.find(prefix)
	if start == nil {
		return []string{}
	}

	type candidate struct {
		word      string
		frequency uint32
	}

	var candidates []candidate
	var walk func(n *node, buf []rune)
	walk = func(n *node, buf []rune) {
		if n.isWord {
			candidates = append(candidates, candidate{word: string(buf), frequency: n.frequency})
		}
		for r, child := range n.children {
			walk(child, append(buf, r))
		}
	}
	walk(start, []rune(prefix))

	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(b.frequency, a.frequency); c != 0 {
			return c
		}
		return strings.Compare(a.word, b.word)
	})

	n := min(limit, len(candidates))
	out := make([]string, n)
	for i := range n {
		out[i] = candidates[i].word
	}
	return out
}

// WordCount returns the number of distinct words.
func (t *Trie) WordCount() int { return t.wordCount }

// NodeCount returns the number of nodes including the root.
func (t *Trie) NodeCount() int { return t.nodeCount }

func (t *Trie) find(s string) *node {
	n := t.root
	for _, r := range s {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func normalize(s string) string { return strings.ToLower(s) }

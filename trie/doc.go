// Package trie provides a prefix tree with frequency-ranked completions.
//
// Words are lowercased before they are stored or looked up. Inserting the same
// word repeatedly accumulates its frequency, and Suggest ranks completions by
// that accumulated frequency.
//
// # Ranking
//
// Suggest orders words by frequency, highest first. Words with equal frequency
// are ordered lexicographically (byte order of the lowercased word), so the
// result for a given set of inserted words does not depend on insertion order.
package trie

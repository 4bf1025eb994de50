package main

// trieNode is one prefix of the dictionary. A nil *trieNode stands for a
// prefix no dictionary word starts with.
type trieNode struct {
	children map[byte]*trieNode
	terminal bool // a dictionary word ends here
}

func newTrie(words []string) *trieNode {
	root := &trieNode{}
	for _, w := range words {
		root.insert(w)
	}
	return root
}

func (n *trieNode) insert(word string) {
	node := n
	for i := 0; i < len(word); i++ {
		if node.children == nil {
			node.children = make(map[byte]*trieNode)
		}
		next := node.children[word[i]]
		if next == nil {
			next = &trieNode{}
			node.children[word[i]] = next
		}
		node = next
	}
	node.terminal = true
}

// descend follows tile from n. Tiles longer than one letter are followed
// letter by letter.
func (n *trieNode) descend(tile string) *trieNode {
	node := n
	for i := 0; i < len(tile) && node != nil; i++ {
		node = node.children[tile[i]]
	}
	return node
}

// exhausted reports whether no longer word can be built from this prefix:
// either nothing matches it, or the only match is the prefix itself.
func (n *trieNode) exhausted() bool {
	return n == nil || (n.terminal && len(n.children) == 0)
}

func (n *trieNode) isWord() bool {
	return n != nil && n.terminal
}

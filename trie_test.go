package main

import "testing"

func TestTrie(t *testing.T) {
	root := newTrie([]string{"SEAR", "SEARS", "SEAL"})

	sea := root.descend("SEA")
	if sea == nil || sea.isWord() || sea.exhausted() {
		t.Fatal("SEA should be a live prefix, not a word")
	}

	sear := sea.descend("R")
	if !sear.isWord() || sear.exhausted() {
		t.Fatal("SEAR is a word with a longer continuation")
	}
	if !sear.descend("S").exhausted() {
		t.Fatal("SEARS is the only word with that prefix and should be exhausted")
	}
	if !sea.descend("L").exhausted() || !sea.descend("L").isWord() {
		t.Fatal("SEAL should be an exhausted word")
	}

	missing := root.descend("Z")
	if missing != nil || !missing.exhausted() || missing.isWord() {
		t.Fatal("unknown prefix should be nil and exhausted")
	}
	if missing.descend("A") != nil {
		t.Fatal("descending from a nil node should stay nil")
	}
}

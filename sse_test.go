package main

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("board1")
	c2 := b.Register("board1")
	c3 := b.Register("board2")

	if b.ClientCount("board1") != 2 {
		t.Fatalf("expected 2 clients for board1, got %d", b.ClientCount("board1"))
	}
	if b.ClientCount("board2") != 1 {
		t.Fatalf("expected 1 client for board2, got %d", b.ClientCount("board2"))
	}

	b.Unregister(c1)
	if b.ClientCount("board1") != 1 {
		t.Fatalf("expected 1 client for board1 after unregister, got %d", b.ClientCount("board1"))
	}

	b.Unregister(c2)
	b.Unregister(c3)
	if b.ClientCount("board1") != 0 || b.ClientCount("board2") != 0 {
		t.Fatal("expected 0 clients after full unregister")
	}
}

func TestBroadcasterDoubleUnregister(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("board1")
	b.Unregister(c)
	b.Unregister(c) // should not panic
}

func TestBroadcast(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("board1")
	c2 := b.Register("board2")

	b.Broadcast("board1", "hello")

	select {
	case msg := <-c1.ch:
		if msg != "hello" {
			t.Fatalf("c1 expected 'hello', got %q", msg)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("c1 did not receive message")
	}

	// c2 is on board2, should not receive.
	select {
	case <-c2.ch:
		t.Fatal("c2 should not receive board1 message")
	case <-time.After(50 * time.Millisecond):
	}

	b.Unregister(c1)
	b.Unregister(c2)
}

func TestPublish(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("board1")
	defer b.Unregister(c)

	b.Publish(RunEvent{Type: eventRunFinished, BoardID: "board1", Words: 12, DurationMS: 3})

	select {
	case msg := <-c.ch:
		var evt RunEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if evt.Type != eventRunFinished || evt.Words != 12 || evt.Running {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive event")
	}
}

func TestBroadcastSkipsFullChannel(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("board1")

	// Fill the channel.
	for range sseChannelBuffer {
		b.Broadcast("board1", "fill")
	}

	// This should not block.
	b.Broadcast("board1", "overflow")

	b.Unregister(c)
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			boardID := "board1"
			if i%2 == 0 {
				boardID = "board2"
			}
			c := b.Register(boardID)
			b.Publish(RunEvent{Type: eventRunStarted, BoardID: boardID, Running: true})
			b.ClientCount(boardID)
			b.Unregister(c)
		}(i)
	}
	wg.Wait()

	if b.ClientCount("board1") != 0 || b.ClientCount("board2") != 0 {
		t.Fatal("expected 0 clients after concurrent test")
	}
}

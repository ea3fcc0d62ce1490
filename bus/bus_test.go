package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Errorf("expected payload %v, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for payload %v", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Errorf("unexpected message: %v on %v", got.Payload, got.Topic)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("tracker", "record"))
	conn.Publish(conn.NewMessage(T("tracker", "record"), "hello", false))

	expectPayload(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("tracker", "state"), "running", true))

	// Subscriber arrives after the publish and still sees it.
	sub := conn.Subscribe(T("tracker", "state"))
	expectPayload(t, sub, "running")

	// Clearing the retained message stops replay for later subscribers.
	conn.Publish(conn.NewMessage(T("tracker", "state"), nil, true))
	late := conn.Subscribe(T("tracker", "state"))
	expectNoMessage(t, late)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("tracker", "link", WildcardOne))
	sNo := c.Subscribe(T("tracker", "record", WildcardOne))

	c.Publish(c.NewMessage(T("tracker", "link", "radio"), "up", false))

	expectPayload(t, s1, "up")
	expectNoMessage(t, sNo)
}

func TestWildcardRest(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	all := c.Subscribe(T("tracker", WildcardRest))

	c.Publish(c.NewMessage(T("tracker", "link", "gps"), "down", false))
	c.Publish(c.NewMessage(T("tracker", "record"), "rec", false))
	c.Publish(c.NewMessage(T("other"), "x", false))

	expectPayload(t, all, "down")
	expectPayload(t, all, "rec")
	expectNoMessage(t, all)
}

func TestWildcardRetainedReplay(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("tracker", "link", "radio"), "up", true))
	c.Publish(c.NewMessage(T("tracker", "link", "gps"), "down", true))

	sub := c.Subscribe(T("tracker", "link", WildcardOne))

	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for retained replay")
		}
	}
	if !got["up"] || !got["down"] {
		t.Errorf("missing retained replays: %v", got)
	}
}

func TestDropOldestWhenFull(t *testing.T) {
	b := NewBus(1)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("tracker", "record"))
	c.Publish(c.NewMessage(T("tracker", "record"), "old", false))
	c.Publish(c.NewMessage(T("tracker", "record"), "new", false))

	expectPayload(t, sub, "new")
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("tracker", "record"))
	sub.Unsubscribe()

	c.Publish(c.NewMessage(T("tracker", "record"), "x", false))
	if _, ok := <-sub.Channel(); ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

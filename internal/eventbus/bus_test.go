package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[int](2)
	ch := bus.Subscribe()
	bus.Publish(7)
	if v := <-ch; v != 7 {
		t.Fatalf("expected 7 got %d", v)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := New[string](1)
	ch := bus.Subscribe()
	bus.Publish("a")
	bus.Publish("b")
	if bus.Dropped() != 1 {
		t.Fatalf("expected one dropped event got %d", bus.Dropped())
	}
	if v := <-ch; v != "a" {
		t.Fatalf("expected first event kept, got %q", v)
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int](0)
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	bus.Publish(1)
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("subscribe after close must yield a closed channel")
	}
	bus.Unsubscribe(ch1)
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus[int]
	bus.Publish(1)
}

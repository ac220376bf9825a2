package console

import "testing"

func TestMailbox(t *testing.T) {
	m := newMailbox()
	m.put(1)
	m.put(2)
	m.put(3)

	if m.len() != 3 {
		t.Fatalf("expected 3 queued messages, got %d", m.len())
	}
	select {
	case <-m.wake:
	default:
		t.Fatal("expected a wake token")
	}
	select {
	case <-m.wake:
		t.Fatal("expected a single wake token for several puts")
	default:
	}

	got := m.drain()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected messages in arrival order, got %v", got)
	}
	if m.len() != 0 || m.drain() != nil {
		t.Fatal("expected an empty mailbox after drain")
	}
}

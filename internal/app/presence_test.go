package app

import (
	"testing"

	"github.com/airbandhq/airband/internal/domain"
)

func TestPresenceJoinReturnsOthers(t *testing.T) {
	p := NewPresence()
	others := p.Join("r1", "alice")
	if len(others) != 0 {
		t.Fatalf("first joiner should see empty room, got %v", others)
	}
	others = p.Join("r1", "bob")
	if len(others) != 1 || others[0] != "alice" {
		t.Fatalf("second joiner should see [alice], got %v", others)
	}
	if p.Count("r1") != 2 {
		t.Fatalf("expected count 2, got %d", p.Count("r1"))
	}
}

func TestPresenceJoinIdempotent(t *testing.T) {
	p := NewPresence()
	p.Join("r1", "alice")
	p.Join("r1", "alice")
	if p.Count("r1") != 1 {
		t.Fatalf("double join must not grow the set, got %d", p.Count("r1"))
	}
}

func TestPresenceLeaveStranger(t *testing.T) {
	p := NewPresence()
	p.Join("r1", "alice")
	if n := p.Leave("r1", "ghost"); n != 1 {
		t.Fatalf("stranger leave must not affect count, got %d", n)
	}
	if n := p.Leave("nosuchroom", "ghost"); n != 0 {
		t.Fatalf("leave of unknown room should report 0, got %d", n)
	}
}

func TestPresenceNetJoins(t *testing.T) {
	p := NewPresence()
	sids := []domain.SessionID{"a", "b", "c"}
	for _, sid := range sids {
		p.Join("r1", sid)
	}
	p.Leave("r1", "b")
	if p.Count("r1") != 2 {
		t.Fatalf("count must equal net-positive joins, got %d", p.Count("r1"))
	}
	if p.Contains("r1", "b") {
		t.Fatalf("b left and must not be present")
	}
	p.Leave("r1", "a")
	p.Leave("r1", "c")
	if p.Count("r1") != 0 {
		t.Fatalf("empty room should count 0, got %d", p.Count("r1"))
	}
}

func TestPresenceDrop(t *testing.T) {
	p := NewPresence()
	p.Join("r1", "alice")
	p.Join("r1", "bob")
	members := p.Drop("r1")
	if len(members) != 2 {
		t.Fatalf("drop should report both members, got %v", members)
	}
	if p.Count("r1") != 0 {
		t.Fatalf("room should be empty after drop")
	}
}

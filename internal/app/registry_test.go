package app

import (
	"testing"

	"github.com/airbandhq/airband/internal/core"
)

type nullConn struct{}

func (nullConn) TrySend(core.Frame) error { return nil }
func (nullConn) Close()                   {}

func TestRegistryUnbindOnce(t *testing.T) {
	r := NewRegistry()
	r.Bind("s1", nullConn{})
	r.AddRoom("s1", "r1")
	r.AddRoom("s1", "r2")

	rooms, ok := r.Unbind("s1")
	if !ok || len(rooms) != 2 {
		t.Fatalf("first unbind should report both rooms, got %v ok=%v", rooms, ok)
	}
	if _, ok := r.Unbind("s1"); ok {
		t.Fatalf("second unbind must be a no-op")
	}
	if r.Connected("s1") {
		t.Fatalf("unbound session must not read as connected")
	}
}

func TestRegistryRoomBookkeeping(t *testing.T) {
	r := NewRegistry()
	if ok := r.AddRoom("ghost", "r1"); ok {
		t.Fatalf("adding a room to an unbound session should fail")
	}
	r.Bind("s1", nullConn{})
	r.AddRoom("s1", "r1")
	r.RemoveRoom("s1", "r1")
	if rooms := r.RoomsOf("s1"); len(rooms) != 0 {
		t.Fatalf("expected no rooms after removal, got %v", rooms)
	}
	if _, ok := r.Conn("s1"); !ok {
		t.Fatalf("bound session should expose its connection")
	}
}

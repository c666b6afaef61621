package memory

import (
	"testing"
	"time"
)

func TestStore_SetGet(t *testing.T) {
	s := New(4, time.Minute)
	s.Set("k", 42)
	v, ok := s.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("get: %v %v", v, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestStore_Expires(t *testing.T) {
	s := New(4, 10*time.Millisecond)
	s.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	s.Set("k", 1)
	if _, ok := s.Get("k"); ok {
		t.Fatal("nil store must miss")
	}
}

package session

import "testing"

func TestHolderLifecycle(t *testing.T) {
	h := NewHolder()

	if _, ok := h.Get(); ok {
		t.Fatal("new holder must be empty")
	}

	h.Set("AIzaSyExampleKey123")
	key, ok := h.Get()
	if !ok || key != "AIzaSyExampleKey123" {
		t.Fatalf("Get() = %q, %v", key, ok)
	}

	h.Clear()
	if _, ok := h.Get(); ok {
		t.Fatal("holder must be empty after Clear")
	}
}

func TestHoldersAreIndependent(t *testing.T) {
	a := NewHolder()
	b := NewHolder()

	a.Set("AIzaSyOnlyInA")
	if _, ok := b.Get(); ok {
		t.Fatal("holders must not share state")
	}
}

func TestValidFormat(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"AIzaSyExampleKey123", true},
		{"  AIzaSyPadded  ", true},
		{"AIza", false},
		{"sk-somethingelse", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidFormat(tc.key); got != tc.want {
			t.Errorf("ValidFormat(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

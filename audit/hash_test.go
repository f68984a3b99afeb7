package audit

import "testing"

func TestHashIP(t *testing.T) {
	if got := HashIP(""); got != nil {
		t.Fatalf("expected nil for empty ip, got %v", *got)
	}

	a := HashIP("203.0.113.9")
	if a == nil || *a == "" {
		t.Fatal("expected non-empty digest")
	}
	if *a == "203.0.113.9" {
		t.Fatal("digest must not equal the raw ip")
	}

	b := HashIP("203.0.113.9")
	if *a != *b {
		t.Fatal("expected stable digest for the same ip")
	}

	c := HashIP("203.0.113.10")
	if *a == *c {
		t.Fatal("expected different digests for different ips")
	}
}

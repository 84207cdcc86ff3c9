package blobstore

import "testing"

func TestHashIsStableAndContentSensitive(t *testing.T) {
	a := Hash([]byte("scene data"))
	b := Hash([]byte("scene data"))
	c := Hash([]byte("different data"))

	if a != b {
		t.Errorf("expected Hash to be deterministic, got %q and %q", a, b)
	}
	if a == c {
		t.Errorf("expected different content to hash differently")
	}
	if len(a) != 32 {
		t.Errorf("expected a 32-character hex md5 digest, got %q", a)
	}
}

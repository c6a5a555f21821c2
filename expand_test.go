package htsensor

import (
	"os/user"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	for _, p := range []string{"", "/abs/path", "rel/path", "gs://bucket/x", "/something/~/x"} {
		if got := ExpandHome(p); got != p {
			t.Fatalf("Expected %q to be unchanged, got %q", p, got)
		}
	}

	usr, err := user.Current()
	if err != nil {
		t.Skip("No current user:", err)
	}

	if got := ExpandHome("~"); got != usr.HomeDir {
		t.Fatalf("Expected %q, got %q", usr.HomeDir, got)
	}
	if got, want := ExpandHome("~/lib.txt"), filepath.Join(usr.HomeDir, "lib.txt"); got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
}

package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	out := String()
	if !strings.HasPrefix(out, "salesreport "+Version) {
		t.Fatalf("unexpected version line: %q", out)
	}
	if !strings.Contains(out, "commit: "+Commit) {
		t.Fatalf("commit missing: %q", out)
	}
}

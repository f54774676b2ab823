package resymlog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestForIncludesComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	For("tpi").Info("parsing field list")

	out := buf.String()
	if !strings.Contains(out, "component=tpi") {
		t.Errorf("expected component field in log output, got %q", out)
	}
	if !strings.Contains(out, "parsing field list") {
		t.Errorf("expected message in log output, got %q", out)
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	before := base.GetLevel()
	SetLevel("not-a-real-level")
	if base.GetLevel() != before {
		t.Errorf("SetLevel should ignore unknown levels")
	}
}

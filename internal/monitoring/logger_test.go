package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("sampled %d cells", 12221)
	if got != "sampled 12221 cells" {
		t.Errorf("Logf captured %q, want %q", got, "sampled 12221 cells")
	}

	got = ""
	SetLogger(nil)
	Logf("muted")
	if got != "" {
		t.Errorf("no-op logger should not reach the previous logger, got %q", got)
	}
}

func TestSetWarnLogger(t *testing.T) {
	original := Warnf
	defer func() { Warnf = original }()

	var warnings []string
	SetWarnLogger(func(format string, v ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	})
	Warnf("degenerate region at (%d,%d)", 5, 5)
	if len(warnings) != 1 || warnings[0] != "degenerate region at (5,5)" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	SetWarnLogger(nil)
	Warnf("ignored")
	if len(warnings) != 1 {
		t.Errorf("no-op warn logger should not record, got %v", warnings)
	}
}

func TestDefaultsNotNil(t *testing.T) {
	if Logf == nil || Warnf == nil {
		t.Fatal("default loggers must not be nil")
	}
}

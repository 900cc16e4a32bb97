package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestTrackerCountsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)
	tr.SetTotal(3)
	tr.Add(1)
	tr.Add(2)

	if got := tr.Current(); got != 3 {
		t.Errorf("Current() = %d, want 3", got)
	}

	tr.Finish()
	if !strings.Contains(buf.String(), "Profiled 3 of 3 columns") {
		t.Errorf("summary missing from output: %q", buf.String())
	}
}

func TestTrackerAddBeforeSetTotal(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)
	tr.Add(5)
	if got := tr.Current(); got != 5 {
		t.Errorf("Current() = %d, want 5", got)
	}
}

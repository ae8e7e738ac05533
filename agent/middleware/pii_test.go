package middleware

import (
	"strings"
	"testing"
)

func TestMaskKnownNameAndPatterns(t *testing.T) {
	t.Parallel()

	m := NewPIIMasker([]string{"Sarah Johnson", "James Wilson"})

	text := "Patient Sarah Johnson with ID P-201 called from 555-123-4567"
	masked := m.Mask(text)

	if strings.Contains(masked, "Sarah Johnson") {
		t.Fatalf("name not masked: %q", masked)
	}
	if !strings.Contains(masked, "S. J.") {
		t.Fatalf("expected initials in masked output: %q", masked)
	}
	if strings.Contains(masked, "P-201") {
		t.Fatalf("patient id not masked: %q", masked)
	}
	if strings.Contains(masked, "555-123-4567") {
		t.Fatalf("phone not masked: %q", masked)
	}
}

func TestMaskCleanTextUnchanged(t *testing.T) {
	t.Parallel()

	m := NewPIIMasker(nil)
	text := "I need to reschedule my appointment"
	if got := m.Mask(text); got != text {
		t.Fatalf("clean text modified: %q", got)
	}
}

func TestMaskEmailAndSSN(t *testing.T) {
	t.Parallel()

	m := NewPIIMasker(nil)
	masked := m.Mask("reach me at jane.doe@example.com, ssn 123-45-6789")
	if strings.Contains(masked, "jane.doe@example.com") {
		t.Fatalf("email not masked: %q", masked)
	}
	if strings.Contains(masked, "123-45-6789") {
		t.Fatalf("ssn not masked: %q", masked)
	}
}

func TestDetectReportsKinds(t *testing.T) {
	t.Parallel()

	m := NewPIIMasker([]string{"Maria Garcia"})
	found := m.Detect("maria garcia here, id P-203")

	want := map[string]bool{"patient_id": true, "patient_name": true}
	if len(found) != len(want) {
		t.Fatalf("unexpected detections: %#v", found)
	}
	for _, kind := range found {
		if !want[kind] {
			t.Fatalf("unexpected kind %q in %#v", kind, found)
		}
	}
}

func TestDetectNothing(t *testing.T) {
	t.Parallel()

	m := NewPIIMasker([]string{"Robert Chen"})
	if found := m.Detect("cancel my appointment please"); len(found) != 0 {
		t.Fatalf("expected no detections, got %#v", found)
	}
}

package middleware

import (
	"regexp"
	"strings"
)

// piiPattern pairs a detector with its masked replacement.
type piiPattern struct {
	kind string
	re   *regexp.Regexp
	repl string
}

var piiPatterns = []piiPattern{
	{kind: "patient_id", re: regexp.MustCompile(`P-\d{3,}`), repl: "P-***"},
	{kind: "phone", re: regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`), repl: "***-***-****"},
	{kind: "email", re: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), repl: "***@***.***"},
	{kind: "ssn", re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), repl: "***-**-****"},
}

// PIIMasker masks personally identifiable information in log output.
// Masking never touches the workflow state, only what gets written to logs.
type PIIMasker struct {
	knownNames []string
}

// NewPIIMasker builds a masker that additionally masks the given patient
// names (taken from the appointment store at startup).
func NewPIIMasker(knownNames []string) *PIIMasker {
	names := make([]string, 0, len(knownNames))
	for _, n := range knownNames {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return &PIIMasker{knownNames: names}
}

// Mask replaces detected PII with masked placeholders. Known patient names
// reduce to initials ("Sarah Johnson" -> "S. J.").
func (m *PIIMasker) Mask(text string) string {
	masked := text
	for _, name := range m.knownNames {
		if !strings.Contains(masked, name) {
			continue
		}
		parts := strings.Fields(name)
		if len(parts) == 0 {
			continue
		}
		initials := parts[0][:1] + ". " + parts[len(parts)-1][:1] + "."
		masked = strings.ReplaceAll(masked, name, initials)
	}
	for _, p := range piiPatterns {
		masked = p.re.ReplaceAllString(masked, p.repl)
	}
	return masked
}

// Detect returns the kinds of PII present in the text, in pattern order,
// with "patient_name" appended when a known name appears.
func (m *PIIMasker) Detect(text string) []string {
	var found []string
	for _, p := range piiPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.kind)
		}
	}
	lower := strings.ToLower(text)
	for _, name := range m.knownNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			found = append(found, "patient_name")
			break
		}
	}
	return found
}

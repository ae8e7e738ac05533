package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/drafter.txt
	drafterRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier string
	Drafter    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier: strings.TrimSpace(classifierRaw),
		Drafter:    strings.TrimSpace(drafterRaw),
	}
}

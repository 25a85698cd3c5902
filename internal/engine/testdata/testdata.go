package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/crimson-sun/fairnorm/internal/model"
)

//go:embed corpus.json
var corpusJSON []byte

// Expected holds the canonical values a corpus record must normalize to.
// Empty strings mean the field must come out absent.
type Expected struct {
	EventName string `json:"event_name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Venue     string `json:"venue"`
	District  string `json:"district"`
	Language  string `json:"language"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Virtual   string `json:"virtual"`
}

// CorpusEntry is a labeled raw record for end-to-end normalization checks.
type CorpusEntry struct {
	Description string           `json:"description"`
	Hint        model.SourceHint `json:"hint"`
	Raw         model.RawRecord  `json:"raw"`
	Expected    Expected         `json:"expected"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}

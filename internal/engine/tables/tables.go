package tables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// ErrInvalidTable is returned when a reference table fails to parse or validate.
var ErrInvalidTable = errors.New("invalid reference table")

const (
	venuesFile    = "venues.yaml"
	districtsFile = "districts.yaml"
	scriptFile    = "s2t.yaml"

	districtCount = 18
)

// VenueRule is a compiled venue alias entry.
type VenueRule struct {
	Canonical string
	Patterns  []*regexp.Regexp
}

// Script is the Simplified to Traditional mapping.
type Script struct {
	Phrases    map[string]string
	Characters map[rune]rune
	MaxPhrase  int // longest phrase key, in runes
}

// Tables holds the immutable reference data shared by every engine component.
// Nothing mutates a Tables after Load returns; share it by pointer.
type Tables struct {
	venues    []VenueRule
	districts []model.District
	script    Script
}

// Venues returns the ordered venue rules.
func (t *Tables) Venues() []VenueRule { return t.venues }

// Districts returns the 18 districts in statutory order.
func (t *Tables) Districts() []model.District { return t.districts }

// Script returns the Simplified to Traditional mapping.
func (t *Tables) Script() Script { return t.script }

type venuesDoc struct {
	Venues []model.VenueAlias `yaml:"venues"`
}

type districtsDoc struct {
	Districts []model.District `yaml:"districts"`
}

type scriptDoc struct {
	Phrases    map[string]string `yaml:"phrases"`
	Characters map[string]string `yaml:"characters"`
}

// Load reads venues.yaml, districts.yaml and s2t.yaml from fsys.
func Load(fsys fs.FS) (*Tables, error) {
	var vd venuesDoc
	if err := decode(fsys, venuesFile, &vd); err != nil {
		return nil, err
	}
	var dd districtsDoc
	if err := decode(fsys, districtsFile, &dd); err != nil {
		return nil, err
	}
	var sd scriptDoc
	if err := decode(fsys, scriptFile, &sd); err != nil {
		return nil, err
	}

	venues, err := compileVenues(vd.Venues)
	if err != nil {
		return nil, err
	}
	if len(dd.Districts) != districtCount {
		return nil, fmt.Errorf("%w: %s: want %d districts, got %d", ErrInvalidTable, districtsFile, districtCount, len(dd.Districts))
	}
	script, err := buildScript(sd)
	if err != nil {
		return nil, err
	}
	return &Tables{venues: venues, districts: dd.Districts, script: script}, nil
}

// LoadDir loads tables from a directory on disk.
func LoadDir(dir string) (*Tables, error) {
	return Load(os.DirFS(dir))
}

func decode(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("tables: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidTable, name, err)
	}
	return nil
}

func compileVenues(aliases []model.VenueAlias) ([]VenueRule, error) {
	rules := make([]VenueRule, 0, len(aliases))
	for _, a := range aliases {
		if a.Canonical == "" || len(a.Patterns) == 0 {
			return nil, fmt.Errorf("%w: %s: entry %q needs a canonical name and patterns", ErrInvalidTable, venuesFile, a.Canonical)
		}
		rule := VenueRule{Canonical: a.Canonical}
		for _, p := range a.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %q: %v", ErrInvalidTable, venuesFile, p, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func buildScript(doc scriptDoc) (Script, error) {
	s := Script{
		Phrases:    make(map[string]string, len(doc.Phrases)),
		Characters: make(map[rune]rune, len(doc.Characters)),
	}
	for k, v := range doc.Phrases {
		n := utf8.RuneCountInString(k)
		if n < 2 {
			return Script{}, fmt.Errorf("%w: %s: phrase %q must be at least two characters", ErrInvalidTable, scriptFile, k)
		}
		s.Phrases[k] = v
		s.MaxPhrase = max(s.MaxPhrase, n)
	}
	for k, v := range doc.Characters {
		if utf8.RuneCountInString(k) != 1 || utf8.RuneCountInString(v) != 1 {
			return Script{}, fmt.Errorf("%w: %s: character entry %q: %q is not a single rune pair", ErrInvalidTable, scriptFile, k, v)
		}
		src, _ := utf8.DecodeRuneInString(k)
		dst, _ := utf8.DecodeRuneInString(v)
		s.Characters[src] = dst
	}
	return s, nil
}

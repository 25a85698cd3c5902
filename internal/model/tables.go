package model

// VenueAlias maps a set of case-insensitive patterns to one canonical venue name.
type VenueAlias struct {
	Canonical string   `yaml:"canonical"`
	Patterns  []string `yaml:"patterns"`
}

// District is one of Hong Kong's 18 statutory districts. Name is the canonical
// Traditional Chinese form; Aliases and English are alternative spellings found
// in addresses.
type District struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	English []string `yaml:"english"`
}

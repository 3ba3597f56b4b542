package account

const currentSchemaVersion = 1

// fileSchema is the on-disk shape of the account store. Secrets are
// stored sealed (see seal.go), never in the clear.
type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return &StoreError{
			Operation: "load",
			Cause:     errUnsupportedVersion(s.Version),
		}
	}
	return nil
}

type accountSchema struct {
	ID      string `toml:"id"`
	Name    string `toml:"name,omitempty"`
	Secret  string `toml:"secret"`
	Enabled bool   `toml:"enabled"`
}

package file

import "fmt"

const currentStoreSchemaVersion = 1

type storeFileSchema struct {
	Version int           `toml:"version"`
	Entries []entrySchema `toml:"entries"`
}

func (s *storeFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentStoreSchemaVersion
	}
}

func (s storeFileSchema) validateVersion() error {
	if s.Version > currentStoreSchemaVersion {
		return fmt.Errorf("unsupported store schema version %d (current %d)", s.Version, currentStoreSchemaVersion)
	}

	return nil
}

type entrySchema struct {
	Key       string `toml:"key"`
	Value     string `toml:"value"`
	UpdatedAt string `toml:"updated_at"`
}

package catalog

import (
	"fmt"
	"os"
)

// Open builds a catalogue from a HYG CSV file and an optional asterism file
// resolved against it. An empty hygPath selects the built-in catalogue.
func Open(hygPath, asterismsPath string) (*Catalogue, error) {
	if hygPath == "" {
		return Builtin()
	}

	b := NewBuilder()
	if err := loadFile(b, hygPath, HYGLoader{}); err != nil {
		return nil, err
	}
	if asterismsPath != "" {
		if err := loadFile(b, asterismsPath, AsterismLoader{}); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func loadFile(b *Builder, path string, loader Loader) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalogue: %w", err)
	}
	defer f.Close()

	if err := b.LoadFrom(f, loader); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

package storage

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

//go:embed fixtures/*.json
var embeddedFixtures embed.FS

// Fixtures is the seed data the stores start from.
type Fixtures struct {
	Deals    []models.Deal
	Comments []models.Comment
	Banners  []models.Banner

	// Overridden lists the files that were read from the override directory.
	Overridden []string
}

// LoadFixtures reads deals.json, comments.json and banners.json. A file present
// in dir replaces its embedded counterpart; an empty dir uses only the embedded set.
func LoadFixtures(dir string) (Fixtures, error) {
	var (
		f   Fixtures
		ovr fs.FS
	)
	if dir != "" {
		ovr = os.DirFS(dir)
	}

	load := func(name string, v any) error {
		if ovr != nil {
			data, err := fs.ReadFile(ovr, name)
			if err == nil {
				if err := json.Unmarshal(data, v); err != nil {
					return fmt.Errorf("failed to parse %s from %s: %w", name, dir, err)
				}
				f.Overridden = append(f.Overridden, name)
				return nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read %s from %s: %w", name, dir, err)
			}
		}
		data, err := embeddedFixtures.ReadFile("fixtures/" + name)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse embedded %s: %w", name, err)
		}
		return nil
	}

	if err := load("deals.json", &f.Deals); err != nil {
		return Fixtures{}, err
	}
	if err := load("comments.json", &f.Comments); err != nil {
		return Fixtures{}, err
	}
	if err := load("banners.json", &f.Banners); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

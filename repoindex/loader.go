package repoindex

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// indexFile mirrors the shape of the authored index.yml.
type indexFile struct {
	Repositories []indexFileEntry `yaml:"repositories"`
}

type indexFileEntry struct {
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Topics      []string `yaml:"topics"`
}

// LoadFile reads the repository index from a YAML file. Entries keep file
// order via Position so the rendered index matches the authored list.
func LoadFile(fsys fs.FS, path string) ([]UpsertEntryRequest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("repoindex: read %s: %w", path, err)
	}
	return parseIndex(data, path)
}

func parseIndex(data []byte, path string) ([]UpsertEntryRequest, error) {
	var file indexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("repoindex: parse %s: %w", path, err)
	}

	entries := make([]UpsertEntryRequest, 0, len(file.Repositories))
	for i, entry := range file.Repositories {
		entries = append(entries, UpsertEntryRequest{
			Name:        entry.Name,
			URL:         entry.URL,
			Description: entry.Description,
			Topics:      entry.Topics,
			Position:    i,
		})
	}
	return entries, nil
}

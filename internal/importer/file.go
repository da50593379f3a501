package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
)

// LoadFile reads postings from a YAML or JSON file. The file holds either a
// list of postings or a mapping with a "jobs" list.
func LoadFile(path string) ([]models.JobInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	inputs, err := ParsePostings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return inputs, nil
}

// ParsePostings decodes postings from YAML (JSON being a subset of it)
func ParsePostings(data []byte) ([]models.JobInput, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	var inputs []models.JobInput
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&inputs); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped struct {
			Jobs []models.JobInput `yaml:"jobs"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return nil, err
		}
		inputs = wrapped.Jobs
	default:
		return nil, fmt.Errorf("expected a list of jobs, got %s", bytes.TrimSpace(data[:min(len(data), 40)]))
	}
	return inputs, nil
}

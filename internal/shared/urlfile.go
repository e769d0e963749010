// Utilities for reading URL lists from files.
package shared

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// urlDocument is the object form accepted by JSON and YAML URL files.
type urlDocument struct {
	URLs []string `json:"urls" yaml:"urls"`
}

// ParseURLFile reads a URL list from disk. The format is chosen by extension:
// .json and .yaml/.yml accept either a bare list or {"urls": [...]}; anything else
// is read as one URL per line with # comments.
func ParseURLFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}

	return ParseURLList(content, filepath.Ext(path))
}

// ParseURLList parses data in the format implied by ext (including the dot).
//
// Blank entries are dropped; order is preserved.
func ParseURLList(data []byte, ext string) ([]string, error) {
	var urls []string
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		urls, err = parseJSONList(data)
	case ".yaml", ".yml":
		urls, err = parseYAMLList(data)
	default:
		urls, err = parseLines(data)
	}
	if err != nil {
		return nil, err
	}

	return compact(urls), nil
}

func parseJSONList(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var urls []string
		if err := json.Unmarshal(trimmed, &urls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return urls, nil
	}

	var doc urlDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return doc.URLs, nil
}

func parseYAMLList(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var urls []string
		if err := root.Decode(&urls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return urls, nil
	case yaml.MappingNode:
		var doc urlDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return doc.URLs, nil
	default:
		return nil, fmt.Errorf("%w: expected a list or a mapping with a urls key", ErrInvalidInput)
	}
}

func parseLines(data []byte) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx == 0 || (idx > 0 && line[idx-1] == ' ') {
			line = line[:idx]
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan URL list: %w", err)
	}
	return urls, nil
}

func compact(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

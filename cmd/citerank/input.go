// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citerank/pkg/types"
)

// citationFile is the wrapped input shape, matching the retrieval response.
type citationFile struct {
	Citations []types.Citation `json:"citations" yaml:"citations"`
}

// readCitations reads a citation list from path, or from stdin when path
// is empty or "-". Files ending in .yaml or .yml are parsed as YAML; all
// other input is JSON. Both a bare list and {"citations": [...]} are
// accepted.
func readCitations(path string, stdin io.Reader) ([]types.Citation, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading citations: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	cs, err := decodeCitations(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, fmt.Errorf("parsing citations: %w", err)
	}
	return cs, nil
}

func decodeCitations(data []byte, isYAML bool) ([]types.Citation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if isYAML {
		var list []types.Citation
		if err := yaml.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
		var f citationFile
		if err := yaml.Unmarshal(trimmed, &f); err != nil {
			return nil, err
		}
		return f.Citations, nil
	}

	if trimmed[0] == '[' {
		var list []types.Citation
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var f citationFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f.Citations, nil
}

// readText returns the contents of path, or "" when path is empty.
func readText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

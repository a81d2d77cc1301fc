// Package pipeline loads discovery batch files and drives them through
// routing and chunked persistence.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/heytulsiprasad/clawdex/internal/domain"
)

// LoadBatches reads a discovery input file holding either a single batch
// object or a JSON array of batches, and normalizes both shapes to a slice.
// Input errors are fatal; nothing touches the store before the whole file
// parses.
func LoadBatches(path string) ([]domain.DiscoveryBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("input file %s is empty", path)
	}

	if trimmed[0] == '[' {
		var batches []domain.DiscoveryBatch
		if err := json.Unmarshal(data, &batches); err != nil {
			return nil, fmt.Errorf("parse batch array: %w", err)
		}
		return batches, nil
	}

	var batch domain.DiscoveryBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	return []domain.DiscoveryBatch{batch}, nil
}

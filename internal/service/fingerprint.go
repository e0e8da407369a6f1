package service

import (
	"encoding/json"
	"fmt"

	"catalog/indexer/internal/domain"

	"github.com/cespare/xxhash/v2"
)

// fingerprint hashes the categorization inputs so unchanged sources can be skipped
func fingerprint(items []domain.Item, categories []domain.Category) (string, error) {
	digest := xxhash.New()
	enc := json.NewEncoder(digest)

	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("failed to encode items: %w", err)
	}
	if err := enc.Encode(categories); err != nil {
		return "", fmt.Errorf("failed to encode categories: %w", err)
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

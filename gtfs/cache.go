package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// SerializeIndex encodes an Index to bytes using gob encoding. Useful for
// disk-based caching so restarts skip re-downloading and re-parsing the
// static zip.
//
// Thread safety: safe once the index is fully constructed.
func SerializeIndex(index *Index) ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(index); err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeIndex decodes an Index from bytes previously produced by
// SerializeIndex. On error the caller should fall back to a fresh load.
func DeserializeIndex(data []byte) (*Index, error) {
	decoder := gob.NewDecoder(bytes.NewReader(data))
	var index Index
	if err := decoder.Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	return &index, nil
}

// SerializeIndexToFile writes an Index to a cache file.
func SerializeIndexToFile(index *Index, path string) error {
	data, err := SerializeIndex(index)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DeserializeIndexFromFile reads an Index from a cache file.
func DeserializeIndexFromFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeIndex(data)
}

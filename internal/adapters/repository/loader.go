package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a dataset from a YAML (or JSON) file.
func LoadFile(ctx context.Context, path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(ctx, f)
}

// Decode reads a dataset document from r. Unknown keys are rejected so a
// misspelt field does not silently drop data.
func Decode(_ context.Context, r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, fmt.Errorf("%w: empty document", ErrInvalidDataset)
		}
		return Dataset{}, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	for i, a := range ds.Agents {
		if a.ID == "" {
			return Dataset{}, fmt.Errorf("%w: agent #%d has no id", ErrInvalidDataset, i)
		}
	}
	return ds, nil
}

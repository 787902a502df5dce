// Package snapshot reads and writes world snapshot files: JSON documents,
// optionally zstd-compressed, checked against an embedded JSON schema.
package snapshot

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/udisondev/navspawn/internal/world"
)

// ErrSchema is returned when a snapshot document does not match the schema.
var ErrSchema = errors.New("snapshot does not match schema")

//go:embed world.schema.json
var worldSchema string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("world.schema.json", worldSchema)
})

// compressed reports whether path selects the zstd container.
func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// Decode parses and validates a snapshot document.
func Decode(data []byte) (*FileV1, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	var f FileV1
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &f, nil
}

// Read loads the snapshot file at path. Files ending in .zst are decompressed.
func Read(path string) (*FileV1, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReaderSize(file, 256*1024)
	if compressed(path) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return Decode(data)
}

// Load reads the file at path and indexes it into a world snapshot.
func Load(path string, classifier world.Classifier) (*world.Snapshot, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.World(classifier)
}

// World converts the file into an in-memory world snapshot.
func (f *FileV1) World(classifier world.Classifier) (*world.Snapshot, error) {
	templates, err := f.toTemplates()
	if err != nil {
		return nil, err
	}
	areas, err := f.toAreas()
	if err != nil {
		return nil, err
	}
	s, err := world.NewSnapshot(areas, templates, classifier)
	if err != nil {
		return nil, fmt.Errorf("indexing snapshot: %w", err)
	}
	return s, nil
}

// Write stores f at path, creating parent directories.
func Write(path string, f *FileV1) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	if compressed(path) {
		enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			out.Close()
			return fmt.Errorf("zstd writer: %w", err)
		}
		if _, err := io.Copy(enc, bytes.NewReader(data)); err != nil {
			enc.Close()
			out.Close()
			return fmt.Errorf("writing snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			out.Close()
			return fmt.Errorf("flushing zstd: %w", err)
		}
	} else if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return out.Close()
}

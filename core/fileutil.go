package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

var (
	runtimeOnce   sync.Once
	sharedRuntime *toolkit.Runtime
	runtimeErr    error
)

// DefaultRuntime returns the process runtime that performs file writes and supplies the
// wall clock
func DefaultRuntime() (*toolkit.Runtime, error) {
	runtimeOnce.Do(func() {
		sharedRuntime, runtimeErr = toolkit.NewRuntime()
		if runtimeErr == nil {
			runtimeErr = sharedRuntime.Validate()
		}
		if runtimeErr != nil {
			runtimeErr = fmt.Errorf("unable to create runtime: %w", runtimeErr)
		}
	})
	return sharedRuntime, runtimeErr
}

// writeFileAtomic renders fn into memory and writes it over path atomically, so readers
// see either the old file or the complete new one. Nothing is written if fn fails.
func writeFileAtomic(path string, fn func(w io.Writer) error) error {
	rt, err := DefaultRuntime()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	return rt.AtomicWriteFile(path, buf.Bytes(), 0o644)
}

// readJSONFile decodes path into v. A missing file returns an error matching
// os.ErrNotExist; a file that cannot be parsed returns a *CorruptFileError.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptFileError{Path: path, Err: err}
	}
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

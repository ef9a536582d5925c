package keyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrRead is returned (wrapped) when an existing file cannot be read.
	ErrRead = errors.New("cannot be read")
	// ErrWrite is returned (wrapped) when the updated content cannot be stored.
	ErrWrite = errors.New("cannot be overwritten")
	// ErrInvalidValue is returned when a value would change the line structure.
	ErrInvalidValue = errors.New("invalid value")
)

// PathError records a failed keyfile operation on a path.
type PathError struct {
	Path string
	Err  error

	kind error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Path, e.kind, e.Err)
}

// Unwrap exposes both the failure class (ErrRead, ErrWrite, ErrInvalidValue)
// and the underlying cause.
func (e *PathError) Unwrap() []error {
	return []error{e.kind, e.Err}
}

// Read returns the value of key in the file at path.
//
// A missing file, a path that is not a regular file, or a file that cannot
// be opened all report ok == false. When the key appears more than once the
// last occurrence wins.
func Read(path, key string) (value string, ok bool) {
	if !isRegular(path) {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return Lookup(string(data), key)
}

// Write replaces the value of every line assigning key in the file at path.
//
// Each matching line keeps its own quoting style. Nothing is written when
// the path is not a regular file or when no line carries the key; neither
// case is an error, whatever the value. A value spanning lines is rejected
// with ErrInvalidValue only when it would be written. The file is replaced
// atomically when its directory permits it.
func Write(path, key, value string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &PathError{Path: path, Err: err, kind: ErrRead}
	}

	updated, replaced := Replace(string(data), key, value)
	if !replaced {
		return nil
	}

	if strings.ContainsAny(value, "\n\r") {
		return &PathError{Path: path, Err: fmt.Errorf("value %q spans lines", value), kind: ErrInvalidValue}
	}

	if err := writeFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return &PathError{Path: path, Err: err, kind: ErrWrite}
	}
	return nil
}

// Lookup scans content line by line for key and returns the last value
// assigned to it. Surrounding whitespace is trimmed and a single pair of
// enclosing double quotes is removed.
func Lookup(content, key string) (value string, ok bool) {
	prefix := key + "="
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		value, ok = unquote(line[len(prefix):]), true
	}
	return value, ok
}

// Replace rewrites every line of content that assigns key. A line whose
// current value starts with a double quote is rewritten quoted, any other
// matching line unquoted. replaced reports whether any line matched; when
// it is false the returned content equals the input.
func Replace(content, key, value string) (updated string, replaced bool) {
	prefix := key + "="
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		old := strings.TrimSpace(line[len(prefix):])
		if strings.HasPrefix(old, `"`) {
			lines[i] = prefix + `"` + value + `"`
		} else {
			lines[i] = prefix + value
		}
		replaced = true
	}
	if !replaced {
		return content, false
	}
	return strings.Join(lines, "\n"), true
}

func unquote(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// writeFile replaces path via a temp file in the same directory, falling
// back to an in-place write when the directory is not writable.
func writeFile(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return os.WriteFile(path, data, perm)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Package timezone checks configured zone names against the zone database
// and the active /etc/localtime copy.
package timezone

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that cannot denote a zone file.
var ErrInvalidName = errors.New("invalid timezone name")

// MismatchError reports that the active zone file differs from the zone
// database entry for the configured name.
type MismatchError struct {
	Localtime string
	Zone      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s and %s differ; %s may be outdated or out of sync with %s",
		e.Localtime, e.Zone, e.Localtime, e.Zone)
}

// ZonePath returns the zone database file for tz.
func ZonePath(zoneinfoDir, tz string) string {
	return filepath.Join(zoneinfoDir, tz)
}

// ValidateName rejects names that would escape the zone database.
func ValidateName(tz string) error {
	switch {
	case tz == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(tz, "/"):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidName, tz)
	case strings.ContainsAny(tz, " \t\n\"'"):
		return fmt.Errorf("%w: %q contains whitespace or quotes", ErrInvalidName, tz)
	}
	for _, part := range strings.Split(tz, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidName, tz)
		}
	}
	return nil
}

// Exists reports an error unless tz names a regular file in zoneinfoDir.
func Exists(zoneinfoDir, tz string) error {
	if err := ValidateName(tz); err != nil {
		return err
	}
	path := ZonePath(zoneinfoDir, tz)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unknown timezone %q: %s is not a regular file", tz, path)
	}
	return nil
}

// Check compares localtime with the zone database entry for tz.
// Unreadable files are reported with the failing path; differing content
// yields a *MismatchError.
func Check(localtime, zoneinfoDir, tz string) error {
	if err := ValidateName(tz); err != nil {
		return err
	}

	active, err := os.ReadFile(localtime)
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", localtime, err)
	}

	zonePath := ZonePath(zoneinfoDir, tz)
	reference, err := os.ReadFile(zonePath)
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", zonePath, err)
	}

	if !bytes.Equal(active, reference) {
		return &MismatchError{Localtime: localtime, Zone: zonePath}
	}
	return nil
}

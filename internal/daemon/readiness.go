package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
)

// Readiness tells a supervisor that the service is up.
type Readiness interface {
	Ready() error
}

// cleaner is implemented by readiness signals that leave state behind.
type cleaner interface {
	Cleanup() error
}

// PIDFile writes the process id to a marker file.
type PIDFile struct {
	Path string

	pid func() int
}

// NewPIDFile creates a PIDFile for path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{Path: path, pid: os.Getpid}
}

// Ready replaces the marker file with the decimal process id.
func (p *PIDFile) Ready() error {
	pid := os.Getpid
	if p.pid != nil {
		pid = p.pid
	}
	data := []byte(strconv.Itoa(pid()))

	// Write atomically via temp file
	tmpPath := filepath.Join(filepath.Dir(p.Path), "."+filepath.Base(p.Path)+".tmp")
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.Path, err)
	}
	if err := os.Rename(tmpPath, p.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", p.Path, err)
	}
	return nil
}

// Cleanup removes the marker file.
func (p *PIDFile) Cleanup() error {
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", p.Path, err)
	}
	return nil
}

// SystemdNotifier reports readiness over the sd_notify protocol. Without
// NOTIFY_SOCKET it does nothing.
type SystemdNotifier struct {
	logger *slog.Logger
}

// NewSystemdNotifier creates a SystemdNotifier.
func NewSystemdNotifier(logger *slog.Logger) *SystemdNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemdNotifier{logger: logger}
}

// Ready sends READY=1.
func (n *SystemdNotifier) Ready() error {
	sent, err := sddaemon.SdNotify(false, sddaemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("sd_notify: %w", err)
	}
	if !sent {
		n.logger.Debug("NOTIFY_SOCKET not set, skipping sd_notify")
	}
	return nil
}

// Cleanup sends STOPPING=1.
func (n *SystemdNotifier) Cleanup() error {
	if _, err := sddaemon.SdNotify(false, sddaemon.SdNotifyStopping); err != nil {
		return fmt.Errorf("sd_notify: %w", err)
	}
	return nil
}

// Readinesses signals each member in order and stops at the first error.
type Readinesses []Readiness

// Ready implements Readiness.
func (rs Readinesses) Ready() error {
	for _, r := range rs {
		if err := r.Ready(); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup cleans up every member that supports it.
func (rs Readinesses) Cleanup() error {
	var errs []error
	for _, r := range rs {
		if c, ok := r.(cleaner); ok {
			if err := c.Cleanup(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Package preflight checks that the host has enough disk and memory to run the executor.
package preflight

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// DefaultMeminfoPath is where the kernel reports memory statistics.
const DefaultMeminfoPath = "/proc/meminfo"

var (
	ErrInsufficientDisk   = errors.New("insufficient disk space")
	ErrInsufficientMemory = errors.New("insufficient available memory")
)

var memAvailableRe = regexp.MustCompile(`^MemAvailable:\s+(\d+)`)

// Report holds the measured resources in megabytes.
type Report struct {
	DiskMB   uint64
	MemoryMB uint64
}

// Checker compares available resources against fixed minimums.
type Checker struct {
	MinDiskMB   uint64
	MinMemoryMB uint64
	MeminfoPath string

	// DiskFree returns the bytes available to unprivileged users on the
	// filesystem holding path.
	DiskFree func(path string) (uint64, error)
	Logger   zerolog.Logger
}

// NewChecker creates a checker for the host.
func NewChecker(minDiskMB, minMemoryMB uint64, logger zerolog.Logger) *Checker {
	return &Checker{
		MinDiskMB:   minDiskMB,
		MinMemoryMB: minMemoryMB,
		MeminfoPath: DefaultMeminfoPath,
		DiskFree:    statfsFree,
		Logger:      logger.With().Str("component", "preflight").Logger(),
	}
}

// Check measures the filesystem holding dir (or its nearest existing parent)
// and the available memory.
func (c *Checker) Check(dir string) (*Report, error) {
	diskFree := c.DiskFree
	if diskFree == nil {
		diskFree = statfsFree
	}

	free, err := diskFree(existingParent(dir))
	if err != nil {
		return nil, fmt.Errorf("check disk space: %w", err)
	}
	report := &Report{DiskMB: free / (1024 * 1024)}
	if report.DiskMB < c.MinDiskMB {
		return report, fmt.Errorf("%w: %dMB available, need at least %dMB", ErrInsufficientDisk, report.DiskMB, c.MinDiskMB)
	}

	memKB, err := ReadMemAvailable(c.MeminfoPath)
	if err != nil {
		return report, err
	}
	report.MemoryMB = memKB / 1024
	if report.MemoryMB < c.MinMemoryMB {
		return report, fmt.Errorf("%w: %dMB available, need at least %dMB", ErrInsufficientMemory, report.MemoryMB, c.MinMemoryMB)
	}

	c.Logger.Info().Uint64("disk_mb", report.DiskMB).Uint64("memory_mb", report.MemoryMB).Msg("resources ok")
	return report, nil
}

// ReadMemAvailable returns MemAvailable in kilobytes.
func ReadMemAvailable(path string) (uint64, error) {
	if path == "" {
		path = DefaultMeminfoPath
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("read memory info: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := memAvailableRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		kb, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse MemAvailable: %w", err)
		}
		return kb, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read memory info: %w", err)
	}
	return 0, fmt.Errorf("MemAvailable not found in %s", path)
}

func statfsFree(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}

func existingParent(dir string) string {
	if dir == "" {
		return "."
	}
	p := filepath.Clean(dir)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

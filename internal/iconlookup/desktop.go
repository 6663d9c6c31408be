package iconlookup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	desktopExt          = ".desktop"
	desktopEntryHeader  = "[Desktop Entry]"
	maxDesktopLineBytes = 1 << 20
)

// Skip reasons recorded in ScanResult.
var (
	ErrNoIcon     = errors.New("no Icon key in [Desktop Entry]")
	ErrUnreadable = errors.New("unreadable desktop entry")
)

// DesktopEntry holds the keys of a [Desktop Entry] group the index cares about.
// Values are taken verbatim after the key prefix.
type DesktopEntry struct {
	Name           string
	Icon           string
	StartupWMClass string
}

// ParseDesktopEntry reads the [Desktop Entry] group of a desktop file.
// Icon and StartupWMClass keep their last value, Name its first. Lines longer
// than maxDesktopLineBytes are skipped without affecting the rest of the file.
func ParseDesktopEntry(r io.Reader) (DesktopEntry, error) {
	var (
		entry   DesktopEntry
		inGroup bool
	)

	err := eachLine(r, maxDesktopLineBytes, func(line string) {
		line = strings.TrimSpace(line)

		if line == desktopEntryHeader {
			inGroup = true
			return
		}
		if strings.HasPrefix(line, "[") {
			inGroup = false
			return
		}
		if !inGroup {
			return
		}

		switch {
		case strings.HasPrefix(line, "Icon="):
			entry.Icon = strings.TrimPrefix(line, "Icon=")
		case strings.HasPrefix(line, "StartupWMClass="):
			entry.StartupWMClass = strings.TrimPrefix(line, "StartupWMClass=")
		case strings.HasPrefix(line, "Name=") && entry.Name == "":
			entry.Name = strings.TrimPrefix(line, "Name=")
		}
	})
	if err != nil {
		return DesktopEntry{}, err
	}
	return entry, nil
}

// eachLine calls fn for every line of r up to limit bytes long. Longer lines
// are dropped whole.
func eachLine(r io.Reader, limit int, fn func(line string)) error {
	br := bufio.NewReader(r)
	var (
		buf      []byte
		overlong bool
	)
	for {
		chunk, more, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if !overlong {
			buf = append(buf, chunk...)
			if overlong = len(buf) > limit; overlong {
				buf = nil
			}
		}
		if more {
			continue
		}
		if !overlong {
			fn(string(buf))
		}
		buf, overlong = buf[:0], false
	}
}

// ScanResult is the outcome of visiting one desktop file.
type ScanResult struct {
	// Path is the desktop file path.
	Path string
	// Basename is the file name without the .desktop extension.
	Basename string
	// Entry is the parsed entry, valid when Err is nil.
	Entry DesktopEntry
	// Err is the skip reason, nil for indexed files.
	Err error
}

// Skipped reports whether the file did not contribute to the index.
func (r ScanResult) Skipped() bool {
	return r.Err != nil
}

// ScanReport summarizes a desktop-entry scan.
type ScanReport struct {
	// Dirs lists the directories visited, in order.
	Dirs []string
	// MissingDirs lists directories that did not exist.
	MissingDirs []string
	// Results holds one entry per .desktop file visited.
	Results []ScanResult
	// errs aggregates skip reasons other than ErrNoIcon.
	errs *multierror.Error
}

// Indexed returns the number of files that contributed to the index.
func (r *ScanReport) Indexed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Skipped() {
			n++
		}
	}
	return n
}

// Skipped returns the number of files that were skipped.
func (r *ScanReport) Skipped() int {
	return len(r.Results) - r.Indexed()
}

// Err returns the aggregated read errors of the scan, or nil.
// Entries without an icon are expected and not reported here.
func (r *ScanReport) Err() error {
	return r.errs.ErrorOrNil()
}

func (r *ScanReport) record(res ScanResult) {
	r.Results = append(r.Results, res)
	if res.Err != nil && !errors.Is(res.Err, ErrNoIcon) {
		r.errs = multierror.Append(r.errs, fmt.Errorf("%s: %w", res.Path, res.Err))
	}
}

// ScanDesktopDirs visits every .desktop file in dirs, in order.
// Unreadable directories and files are recorded and skipped.
func ScanDesktopDirs(dirs []string) *ScanReport {
	report := &ScanReport{}

	for _, dir := range dirs {
		report.Dirs = append(report.Dirs, dir)

		// os.ReadDir sorts by name, which fixes the overwrite order inside a directory.
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				report.MissingDirs = append(report.MissingDirs, dir)
				continue
			}
			report.errs = multierror.Append(report.errs, fmt.Errorf("%s: %w", dir, err))
			continue
		}

		for _, de := range entries {
			if filepath.Ext(de.Name()) != desktopExt || de.IsDir() {
				continue
			}
			report.record(scanDesktopFile(filepath.Join(dir, de.Name())))
		}
	}

	return report
}

func scanDesktopFile(path string) ScanResult {
	res := ScanResult{
		Path:     path,
		Basename: strings.TrimSuffix(filepath.Base(path), desktopExt),
	}

	// #nosec G304 - path comes from a desktop-entry directory listing
	f, err := os.Open(path)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrUnreadable, err)
		return res
	}
	defer f.Close()

	entry, err := ParseDesktopEntry(f)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrUnreadable, err)
		return res
	}
	if entry.Icon == "" {
		res.Err = ErrNoIcon
		return res
	}

	res.Entry = entry
	return res
}

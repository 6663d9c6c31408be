package iconlookup

import (
	"sort"
	"strings"
)

// IconIndex maps lowercase application identifiers to icon names.
type IconIndex map[string]string

// BuildIndex builds an index from a scan report. Later results overwrite
// earlier ones for the same key.
func BuildIndex(report *ScanReport) IconIndex {
	idx := make(IconIndex)
	for _, res := range report.Results {
		if res.Skipped() {
			continue
		}
		idx.add(res.Entry, res.Basename)
	}
	return idx
}

// add registers every identifier of an entry under its icon name.
func (idx IconIndex) add(entry DesktopEntry, basename string) {
	if entry.Icon == "" {
		return
	}
	for _, key := range []string{entry.StartupWMClass, entry.Name, basename, entry.Icon} {
		if key == "" {
			continue
		}
		idx[strings.ToLower(key)] = entry.Icon
	}
}

// Lookup returns the icon name registered for a key. The key is lowercased first.
func (idx IconIndex) Lookup(key string) (string, bool) {
	name, ok := idx[strings.ToLower(key)]
	return name, ok
}

// IndexEntry is one key/icon pair of the index.
type IndexEntry struct {
	Key  string `json:"key"`
	Icon string `json:"icon"`
}

// Entries returns the index sorted by key.
func (idx IconIndex) Entries() []IndexEntry {
	entries := make([]IndexEntry, 0, len(idx))
	for k, v := range idx {
		entries = append(entries, IndexEntry{Key: k, Icon: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

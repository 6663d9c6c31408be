package iconlookup

import (
	"fmt"
	"os"
	"path/filepath"
)

// fallbackSizes are tried, largest first, after the requested size.
var fallbackSizes = []int{256, 128, 96, 72, 64, 48, 32, 24, 22, 16}

var (
	scalableDirs   = []string{"scalable/apps", "scalable/applications", "scalable"}
	sizedSubdirs   = []string{"apps", "applications", ""}
	iconExtensions = []string{".svg", ".png", ".xpm"}
	pixmapExts     = []string{".svg", ".png", ".xpm", ""}
)

// themeSearch looks up icon files inside one named theme across the search paths.
type themeSearch struct {
	paths []string
	theme string
	// flat also tests <theme>/<N>x<N>/<name><ext> without a category directory.
	flat bool
}

// find returns the first matching file. Scalable icons always win over sized ones.
func (s themeSearch) find(name string, size int) (string, bool) {
	sizes := append([]int{size}, fallbackSizes...)

	for _, base := range s.paths {
		themeDir := filepath.Join(base, s.theme)
		if !isDir(themeDir) {
			continue
		}

		for _, sub := range scalableDirs {
			if p := filepath.Join(themeDir, sub, name+".svg"); fileExists(p) {
				return p, true
			}
		}

		for _, n := range sizes {
			sizeDir := filepath.Join(themeDir, fmt.Sprintf("%dx%d", n, n))
			for _, sub := range sizedSubdirs {
				for _, ext := range iconExtensions {
					if p := filepath.Join(sizeDir, sub, name+ext); fileExists(p) {
						return p, true
					}
					if s.flat {
						if p := filepath.Join(sizeDir, name+ext); fileExists(p) {
							return p, true
						}
					}
				}
			}
		}
	}

	return "", false
}

// findPixmap tests <dir>/<name> with each pixmap extension.
func findPixmap(dir, name string) (string, bool) {
	for _, ext := range pixmapExts {
		if p := filepath.Join(dir, name+ext); fileExists(p) {
			return p, true
		}
	}
	return "", false
}

// fileExists reports whether path is a regular file, following symlinks.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

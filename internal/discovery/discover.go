package discovery

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Extension is the proprietary audio container suffix handled by the pipeline.
const Extension = ".vgs"

// Asset is one eligible audio file found under a discovery root.
type Asset struct {
	Path string
}

var practiceVariant = regexp.MustCompile(`_p\d{2}$`)

// Discover walks root and returns every eligible audio asset in lexicographic
// path order. Eligibility rules, applied in order:
//
//  1. any path segment equal to "tutorial" or "sfx" (case-insensitive) excludes,
//  2. some path segment must equal "songs" (case-insensitive),
//  3. filename stems ending in "_p" plus exactly two digits are excluded
//     (practice-difficulty variants).
//
// An empty result is a valid outcome, not an error.
func Discover(root string) ([]Asset, error) {
	var assets []Asset
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if Eligible(rel) {
			assets = append(assets, Asset{Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return assets, nil
}

// Eligible applies the exclusion rules to a path relative to the discovery
// root. The final segment is treated as the file name.
func Eligible(relPath string) bool {
	segments := strings.Split(filepath.ToSlash(relPath), "/")
	if len(segments) == 0 {
		return false
	}
	name := segments[len(segments)-1]
	dirs := segments[:len(segments)-1]

	var inSongs bool
	for _, segment := range dirs {
		switch strings.ToLower(segment) {
		case "tutorial", "sfx":
			return false
		case "songs":
			inSongs = true
		}
	}
	if !inSongs {
		return false
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return !practiceVariant.MatchString(strings.ToLower(stem))
}

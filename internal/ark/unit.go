package ark

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Unit is one archive unit: a header file plus its companion data files, all
// sharing a base name within one directory.
type Unit struct {
	HeaderPath string
	DataFiles  []string
}

// Dir returns the directory holding the archive pair.
func (u Unit) Dir() string { return filepath.Dir(u.HeaderPath) }

// FindUnits walks root for header files named name+".HDR" (case-insensitive)
// and pairs each with its sibling name*.ARK data files. Headers without at
// least one data file are omitted; callers treat that as a silent skip.
// Results are ordered lexicographically by header path.
func FindUnits(root, name string) ([]Unit, error) {
	header := strings.ToUpper(name) + ".HDR"
	var units []Unit
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(entry.Name(), header) {
			return nil
		}
		data, err := findDataFiles(filepath.Dir(path), name)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		units = append(units, Unit{HeaderPath: path, DataFiles: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(units, func(i, j int) bool { return units[i].HeaderPath < units[j].HeaderPath })
	return units, nil
}

func findDataFiles(dir, name string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, err
	}
	prefix := strings.ToUpper(name)
	var data []string
	for _, candidate := range entries {
		base := strings.ToUpper(filepath.Base(candidate))
		if strings.HasPrefix(base, prefix) && strings.HasSuffix(base, ".ARK") {
			data = append(data, candidate)
		}
	}
	sort.Strings(data)
	return data, nil
}

package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScenesFS holds the bundled sample scenes.
//
//go:embed scenes/*.yaml scenes/*.toml
var ScenesFS embed.FS

// PrefabsFS holds the bundled entity prefabs.
//
//go:embed *.yaml
var PrefabsFS embed.FS

// Load reads name from disk when such a file exists and otherwise from the
// bundled prefabs and scenes.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	if strings.HasPrefix(clean, "scenes/") {
		return ScenesFS.ReadFile(clean)
	}
	if data, err := PrefabsFS.ReadFile(clean); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(path.Join("scenes", clean))
}

// ModTime reports the modification time of a scene or prefab on disk.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		info, err = os.Stat(diskPrefabPath(cleanPrefabPath(name)))
		if err != nil {
			return time.Time{}, false
		}
	}
	return info.ModTime(), true
}

// Scenes lists the bundled scene file names.
func Scenes() []string {
	entries, err := fs.ReadDir(ScenesFS, "scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isSpecFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}

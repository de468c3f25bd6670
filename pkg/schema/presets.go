package schema

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/matzehuels/impose/pkg/errors"
)

//go:embed presets/*.yaml
var presetFS embed.FS

var loadPresets = sync.OnceValues(func() (map[string]*Schema, error) {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Schema, len(entries))
	for _, e := range entries {
		data, err := presetFS.ReadFile(path.Join("presets", e.Name()))
		if err != nil {
			return nil, err
		}
		s, err := Decode(bytes.NewReader(data), FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", e.Name(), err)
		}
		if err := Validate(s); err != nil {
			return nil, fmt.Errorf("preset %s: %w", e.Name(), err)
		}
		out[s.ID] = s
	}
	return out, nil
})

// Builtin returns copies of all shipped presets sorted by id.
func Builtin() []*Schema {
	presets, err := loadPresets()
	if err != nil {
		panic(fmt.Sprintf("schema: embedded presets are invalid: %v", err))
	}
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Schema, len(ids))
	for i, id := range ids {
		out[i] = presets[id].Clone()
	}
	return out
}

// Lookup returns a copy of the builtin preset with the given id.
func Lookup(id string) (*Schema, error) {
	if err := errors.ValidateID("preset", id); err != nil {
		return nil, err
	}
	for _, s := range Builtin() {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodePresetNotFound, "preset %q not found", id)
}

// DefaultPreset is the id of the preset used when none is named.
const DefaultPreset = "standard_imposition"

package feature

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"gorm.io/datatypes"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

// ParseTree deserializes a stored feature document. A malformed payload must
// never fail a request: it is logged and treated as an empty tree.
func ParseTree(raw datatypes.JSON) Tree {
	if len(raw) == 0 {
		return Tree{}
	}
	var t Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		log.Printf("malformed feature document, treating as empty: %v", err)
		return Tree{}
	}
	if t == nil {
		return Tree{}
	}
	return t
}

// MarshalTree serializes a tree back to its jsonb column form.
func MarshalTree(t Tree) (datatypes.JSON, error) {
	if t == nil {
		t = Tree{}
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// Effective implements the override-or-inherit rule: a user's own assigned
// tree wins when non-empty, otherwise the organization's selected tree is
// inherited wholesale. There are no merge semantics.
func Effective(assigned, inherited Tree) Tree {
	if len(assigned) > 0 {
		return assigned
	}
	if inherited == nil {
		return Tree{}
	}
	return inherited
}

// AddSystem inserts a catalog system into the tree. modules narrows the
// assignment to a subset of the catalog's modules; nil assigns all of them.
func AddSystem(t Tree, catalog *SystemFeature, modules []Module) (Tree, error) {
	if _, ok := t[catalog.SystemKey]; ok {
		return nil, apperror.Conflict(fmt.Sprintf("feature %q is already assigned", catalog.SystemKey))
	}

	selected := modules
	if len(selected) == 0 {
		selected = catalogModules(catalog)
	}
	if len(selected) == 0 {
		return nil, apperror.Validation(fmt.Sprintf("feature %q has no modules to assign", catalog.SystemKey))
	}

	out := cloneTree(t)
	out[catalog.SystemKey] = System{
		SystemName:        catalog.SystemName,
		SystemDescription: catalog.Description,
		Enabled:           true,
		SelectedModules:   selected,
	}
	return out, nil
}

// RemoveSystem deletes a system from the tree, leaving every other entry
// untouched.
func RemoveSystem(t Tree, systemKey string) (Tree, error) {
	if _, ok := t[systemKey]; !ok {
		return nil, apperror.NotFound(fmt.Sprintf("feature %q is not assigned", systemKey))
	}
	out := cloneTree(t)
	delete(out, systemKey)
	return out, nil
}

// ToggleSystem flips the enabled flag of an assigned system in place.
func ToggleSystem(t Tree, systemKey string) (Tree, error) {
	entry, ok := t[systemKey]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("feature %q is not assigned", systemKey))
	}
	out := cloneTree(t)
	entry.Enabled = !entry.Enabled
	out[systemKey] = entry
	return out, nil
}

// Validate checks a candidate tree against the catalog: only cataloged system
// keys, full system metadata, non-empty module lists, and complete module
// fields. All problems are reported together.
func Validate(t Tree, catalogKeys map[string]bool) error {
	var errs []string

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sys := t[key]
		if !catalogKeys[key] {
			errs = append(errs, fmt.Sprintf("system %q is not in the feature catalog", key))
		}
		if sys.SystemName == "" {
			errs = append(errs, fmt.Sprintf("system %q is missing system_name", key))
		}
		if sys.SystemDescription == "" {
			errs = append(errs, fmt.Sprintf("system %q is missing system_description", key))
		}
		if len(sys.SelectedModules) == 0 {
			errs = append(errs, fmt.Sprintf("system %q has no selected_modules", key))
		}
		for i, m := range sys.SelectedModules {
			if m.Key == "" || m.Name == "" || m.Description == "" {
				errs = append(errs, fmt.Sprintf("system %q module #%d is missing key, name or description", key, i+1))
			}
		}
	}

	if len(errs) > 0 {
		return apperror.Validation(errs...)
	}
	return nil
}

func catalogModules(sf *SystemFeature) []Module {
	if len(sf.Modules) == 0 {
		return nil
	}
	var mods []Module
	if err := json.Unmarshal(sf.Modules, &mods); err != nil {
		log.Printf("malformed module list on catalog feature %q: %v", sf.SystemKey, err)
		return nil
	}
	return mods
}

func cloneTree(t Tree) Tree {
	out := make(Tree, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	return out
}

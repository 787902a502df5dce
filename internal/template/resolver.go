// Package template resolves spawn eligibility, faction membership and
// canonical roots over the character/leveled-list template graph.
package template

import (
	"github.com/udisondev/navspawn/internal/model"
)

// MaxResolveDepth bounds every recursive walk over the template graph.
// Host data is expected to be acyclic; deeper chains are treated as unresolved.
const MaxResolveDepth = 64

// Source resolves template references.
type Source interface {
	ResolveTemplate(id model.FormID) (*model.Template, bool)
}

// FactionSet is an unordered set of faction ids.
type FactionSet map[model.FormID]struct{}

// NewFactionSet creates a set from ids.
func NewFactionSet(ids ...model.FormID) FactionSet {
	s := make(FactionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Intersects reports whether s and o share at least one faction.
func (s FactionSet) Intersects(o FactionSet) bool {
	if len(o) < len(s) {
		s, o = o, s
	}
	for id := range s {
		if _, ok := o[id]; ok {
			return true
		}
	}
	return false
}

// Resolver walks the template graph. It holds no state besides its source;
// memoization lives in Catalog.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver over src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// IsValidSpawnBasis reports whether new spawns may be cloned from a placement of id.
// A concrete character qualifies only when reached through a leveled list,
// flagged to respawn and neither unique nor essential.
func (r *Resolver) IsValidSpawnBasis(id model.FormID) bool {
	return r.isValid(id, false, 0)
}

func (r *Resolver) isValid(id model.FormID, viaList bool, depth int) bool {
	if depth > MaxResolveDepth {
		return false
	}
	t, ok := r.src.ResolveTemplate(id)
	if !ok {
		return false
	}

	switch t.Kind {
	case model.KindNpc:
		if !t.Template.IsNull() {
			return r.isValid(t.Template, viaList, depth+1)
		}
		return viaList &&
			t.Flags.Has(model.NpcFlagRespawn) &&
			!t.Flags.Has(model.NpcFlagUnique) &&
			!t.Flags.Has(model.NpcFlagEssential)
	case model.KindLeveledList:
		first, ok := t.FirstEntry()
		if !ok {
			return false
		}
		return r.isValid(first, true, depth+1)
	}
	return false
}

// Factions returns the faction set a placement of id ends up with.
// Unresolvable paths yield an empty set.
func (r *Resolver) Factions(id model.FormID) FactionSet {
	return r.factions(id, 0)
}

func (r *Resolver) factions(id model.FormID, depth int) FactionSet {
	if depth > MaxResolveDepth {
		return FactionSet{}
	}
	t, ok := r.src.ResolveTemplate(id)
	if !ok {
		return FactionSet{}
	}

	switch t.Kind {
	case model.KindNpc:
		if t.TemplateFlags.Has(model.TemplateUseFactions) {
			if t.Template.IsNull() {
				return FactionSet{}
			}
			return r.factions(t.Template, depth+1)
		}
		return NewFactionSet(t.Factions...)
	case model.KindLeveledList:
		if first, ok := t.FirstEntry(); ok {
			return r.factions(first, depth+1)
		}
	}
	return FactionSet{}
}

// templateList follows the template chain of a concrete character until it
// reaches a leveled list.
func (r *Resolver) templateList(id model.FormID) (model.FormID, bool) {
	t, ok := r.src.ResolveTemplate(id)
	if !ok || t.Kind != model.KindNpc {
		return 0, false
	}
	for depth := 0; depth <= MaxResolveDepth; depth++ {
		if t.Template.IsNull() {
			return 0, false
		}
		ref := t.Template
		next, ok := r.src.ResolveTemplate(ref)
		if !ok {
			return 0, false
		}
		if next.Kind == model.KindLeveledList {
			return ref, true
		}
		t = next
	}
	return 0, false
}

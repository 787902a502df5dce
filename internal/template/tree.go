package template

import (
	"log/slog"

	"github.com/udisondev/navspawn/internal/model"
)

// Graph is the part of the world data needed to build the canonicalization tree.
type Graph interface {
	Source
	// ListingParents returns the leveled lists whose first entry is id.
	ListingParents(id model.FormID) []model.FormID
	// Templates enumerates every template id in load order.
	Templates() []model.FormID
}

type rootEntry struct {
	root model.FormID
	ok   bool // false: two or more distinct ancestor roots
}

// Tree maps leveled-list references to a single representative root.
// Built once per run, read-only afterwards.
type Tree struct {
	parents map[model.FormID][]model.FormID // listed id → lists that list it first
	roots   map[model.FormID]rootEntry
	reps    map[model.FormID]model.FormID // character → representative character
	// characters whose template resolves to a list without a single root
	unrooted map[model.FormID]struct{}
}

// BuildTree computes the root of every listed id and the representative
// character of every rooted leveled list.
func BuildTree(g Graph) *Tree {
	t := &Tree{
		parents:  make(map[model.FormID][]model.FormID),
		roots:    make(map[model.FormID]rootEntry),
		reps:     make(map[model.FormID]model.FormID),
		unrooted: make(map[model.FormID]struct{}),
	}

	ids := g.Templates()
	for _, id := range ids {
		if parents := g.ListingParents(id); len(parents) > 0 {
			t.parents[id] = parents
		}
	}

	inProgress := make(map[model.FormID]bool)
	ambiguous := 0
	for _, id := range ids {
		if _, listed := t.parents[id]; !listed {
			continue
		}
		if _, ok := t.resolveRoot(id, inProgress, 0); !ok {
			ambiguous++
		}
	}

	t.selectRepresentatives(g, ids)

	slog.Debug("canonicalization tree built",
		"listed", len(t.parents),
		"ambiguous", ambiguous,
		"representatives", len(t.reps),
		"unrooted", len(t.unrooted))

	return t
}

// resolveRoot memoizes per id. A node revisited while still in progress
// belongs to a cycle and is reported as ambiguous.
func (t *Tree) resolveRoot(id model.FormID, inProgress map[model.FormID]bool, depth int) (model.FormID, bool) {
	if e, ok := t.roots[id]; ok {
		return e.root, e.ok
	}
	parents := t.parents[id]
	if len(parents) == 0 {
		return id, true
	}
	if inProgress[id] || depth > MaxResolveDepth {
		return 0, false
	}

	inProgress[id] = true
	var (
		root  model.FormID
		found bool
		ok    = true
	)
	for _, p := range parents {
		pr, pok := t.resolveRoot(p, inProgress, depth+1)
		if !pok {
			ok = false
			break
		}
		if found && pr != root {
			ok = false
			break
		}
		root, found = pr, true
	}
	delete(inProgress, id)

	if !ok {
		root = 0
	}
	t.roots[id] = rootEntry{root: root, ok: ok}
	return root, ok
}

// selectRepresentatives groups concrete characters by the root of the
// leveled list their template resolves to, and picks per group the
// character whose template flags contain every other member's.
// Ties go to the first seen.
func (t *Tree) selectRepresentatives(g Graph, ids []model.FormID) {
	r := NewResolver(g)

	type member struct {
		id    model.FormID
		flags model.TemplateFlag
	}
	groups := make(map[model.FormID][]member)
	var order []model.FormID

	for _, id := range ids {
		tmpl, ok := g.ResolveTemplate(id)
		if !ok || tmpl.Kind != model.KindNpc {
			continue
		}
		list, ok := r.templateList(id)
		if !ok {
			continue
		}
		root, ok := t.treeRoot(list)
		if !ok {
			t.unrooted[id] = struct{}{}
			continue
		}
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], member{id: id, flags: tmpl.TemplateFlags})
	}

	for _, root := range order {
		members := groups[root]
		best := members[0]
		for _, m := range members[1:] {
			if m.flags != best.flags && m.flags.Contains(best.flags) {
				best = m
			}
		}
		for _, m := range members {
			t.reps[m.id] = best.id
		}
	}
}

func (t *Tree) treeRoot(id model.FormID) (model.FormID, bool) {
	if _, listed := t.parents[id]; !listed {
		return id, true
	}
	e := t.roots[id]
	return e.root, e.ok
}

// Root returns the canonical root of id. The second result is false when
// the id, or the leveled list its template resolves to, has two or more
// distinct ancestor roots.
//
// Lookup order: representative character, then tree root for listed ids,
// then the id itself for ids that never reach a leveled list.
// Root(Root(x)) == Root(x).
func (t *Tree) Root(id model.FormID) (model.FormID, bool) {
	if rep, ok := t.reps[id]; ok {
		return rep, true
	}
	if _, ok := t.unrooted[id]; ok {
		return 0, false
	}
	return t.treeRoot(id)
}

// Representative returns the representative character chosen for id, if any.
func (t *Tree) Representative(id model.FormID) (model.FormID, bool) {
	rep, ok := t.reps[id]
	return rep, ok
}

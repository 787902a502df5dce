package template

import (
	"github.com/udisondev/navspawn/internal/model"
)

// Info is the resolved spawn data of one base record.
type Info struct {
	Valid    bool
	Factions FactionSet
}

// Catalog is the frozen, run-wide memo of base-record resolution.
// Safe for concurrent reads once built.
type Catalog struct {
	info map[model.FormID]Info
	tree *Tree
}

// BuildCatalog resolves every base in bases exactly once.
func BuildCatalog(g Graph, bases []model.FormID) *Catalog {
	r := NewResolver(g)
	c := &Catalog{
		info: make(map[model.FormID]Info, len(bases)),
		tree: BuildTree(g),
	}
	for _, base := range bases {
		if _, done := c.info[base]; done {
			continue
		}
		c.info[base] = Info{
			Valid:    r.IsValidSpawnBasis(base),
			Factions: r.Factions(base),
		}
	}
	return c
}

// Info returns the resolved data for base. Unknown bases are invalid with no factions.
func (c *Catalog) Info(base model.FormID) Info {
	if in, ok := c.info[base]; ok {
		return in
	}
	return Info{Factions: FactionSet{}}
}

// Root returns the canonical root of id, see Tree.Root.
func (c *Catalog) Root(id model.FormID) (model.FormID, bool) {
	return c.tree.Root(id)
}

// Len returns the number of resolved bases.
func (c *Catalog) Len() int {
	return len(c.info)
}

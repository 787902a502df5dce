package template

import (
	"slices"

	"github.com/udisondev/navspawn/internal/model"
)

// memGraph — минимальный in-memory граф шаблонов для тестов.
type memGraph struct {
	order     []model.FormID
	templates map[model.FormID]*model.Template
}

func newMemGraph(templates ...*model.Template) *memGraph {
	g := &memGraph{templates: make(map[model.FormID]*model.Template)}
	for _, t := range templates {
		g.order = append(g.order, t.ID)
		g.templates[t.ID] = t
	}
	return g
}

func (g *memGraph) ResolveTemplate(id model.FormID) (*model.Template, bool) {
	t, ok := g.templates[id]
	return t, ok
}

func (g *memGraph) ListingParents(id model.FormID) []model.FormID {
	var out []model.FormID
	for _, lid := range g.order {
		t := g.templates[lid]
		if first, ok := t.FirstEntry(); ok && first == id {
			out = append(out, lid)
		}
	}
	return out
}

func (g *memGraph) Templates() []model.FormID {
	return slices.Clone(g.order)
}

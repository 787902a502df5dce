package world

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/navspawn/internal/model"
)

// ErrUnknownArea is returned for area ids not present in the snapshot.
var ErrUnknownArea = errors.New("unknown area")

// Area is everything the generator reads about one cell.
type Area struct {
	ID           model.AreaID
	Worldspace   string // empty for interiors
	Npcs         []model.PlacedNpc
	Triangles    []model.Triangle
	PlayerStarts []model.Point3
}

// Snapshot is an immutable in-memory view of the world data.
// It answers gateway queries and accumulates committed spawns.
type Snapshot struct {
	areas    []*Area
	areaByID map[model.AreaID]*Area

	templates     map[model.FormID]*model.Template
	templateOrder []model.FormID
	parents       map[model.FormID][]model.FormID

	classifier Classifier

	mu        sync.Mutex
	committed map[model.AreaID][]model.SpawnRecord
}

// NewSnapshot indexes areas and templates. Area and template order is kept
// as given; it drives deterministic processing and tie-breaks.
func NewSnapshot(areas []*Area, templates []*model.Template, classifier Classifier) (*Snapshot, error) {
	s := &Snapshot{
		areas:      areas,
		areaByID:   make(map[model.AreaID]*Area, len(areas)),
		templates:  make(map[model.FormID]*model.Template, len(templates)),
		parents:    make(map[model.FormID][]model.FormID),
		classifier: classifier,
		committed:  make(map[model.AreaID][]model.SpawnRecord),
	}

	for _, a := range areas {
		if _, dup := s.areaByID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate area %s", a.ID)
		}
		s.areaByID[a.ID] = a
	}

	for _, t := range templates {
		if t.ID.IsNull() {
			return nil, errors.New("template with null id")
		}
		if _, dup := s.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template %s", t.ID)
		}
		s.templates[t.ID] = t
		s.templateOrder = append(s.templateOrder, t.ID)
	}

	// reverse index: first entry → lists
	for _, id := range s.templateOrder {
		if first, ok := s.templates[id].FirstEntry(); ok {
			if !slices.Contains(s.parents[first], id) {
				s.parents[first] = append(s.parents[first], id)
			}
		}
	}

	return s, nil
}

// Areas returns area ids in snapshot order.
func (s *Snapshot) Areas() []model.AreaID {
	ids := make([]model.AreaID, len(s.areas))
	for i, a := range s.areas {
		ids[i] = a.ID
	}
	return ids
}

// Area returns the raw area record.
func (s *Snapshot) Area(id model.AreaID) (*Area, error) {
	a, ok := s.areaByID[id]
	if !ok {
		return nil, fmt.Errorf("area %s: %w", id, ErrUnknownArea)
	}
	return a, nil
}

// ExistingCharacters returns placed characters of area.
func (s *Snapshot) ExistingCharacters(area model.AreaID) []model.PlacedNpc {
	if a, ok := s.areaByID[area]; ok {
		return a.Npcs
	}
	return nil
}

// WalkableTriangles returns navmesh triangles of area.
func (s *Snapshot) WalkableTriangles(area model.AreaID) []model.Triangle {
	if a, ok := s.areaByID[area]; ok {
		return a.Triangles
	}
	return nil
}

// PlayerStartMarkers returns player arrival points of area.
func (s *Snapshot) PlayerStartMarkers(area model.AreaID) []model.Point3 {
	if a, ok := s.areaByID[area]; ok {
		return a.PlayerStarts
	}
	return nil
}

// ClassifyArea returns the domain of area. Unknown areas are interior.
func (s *Snapshot) ClassifyArea(area model.AreaID) model.AreaDomain {
	ws := ""
	if a, ok := s.areaByID[area]; ok {
		ws = a.Worldspace
	}
	return s.classifier.Classify(area, ws)
}

// ResolveTemplate returns the template with id.
func (s *Snapshot) ResolveTemplate(id model.FormID) (*model.Template, bool) {
	t, ok := s.templates[id]
	return t, ok
}

// ListingParents returns lists whose first entry is id.
func (s *Snapshot) ListingParents(id model.FormID) []model.FormID {
	return s.parents[id]
}

// Templates returns template ids in load order.
func (s *Snapshot) Templates() []model.FormID {
	return slices.Clone(s.templateOrder)
}

// TemplateList returns all templates in load order.
func (s *Snapshot) TemplateList() []*model.Template {
	out := make([]*model.Template, len(s.templateOrder))
	for i, id := range s.templateOrder {
		out[i] = s.templates[id]
	}
	return out
}

// AreaList returns all areas in snapshot order.
func (s *Snapshot) AreaList() []*Area {
	return slices.Clone(s.areas)
}

// CommitSpawn appends rec to the area's committed spawns.
func (s *Snapshot) CommitSpawn(area model.AreaID, rec model.SpawnRecord) error {
	if _, ok := s.areaByID[area]; !ok {
		return fmt.Errorf("committing spawn: area %s: %w", area, ErrUnknownArea)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[area] = append(s.committed[area], rec)
	return nil
}

// Committed returns every committed spawn in area order.
func (s *Snapshot) Committed() []model.SpawnRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SpawnRecord
	for _, a := range s.areas {
		out = append(out, s.committed[a.ID]...)
	}
	return out
}

// CommittedCount returns the number of committed spawns.
func (s *Snapshot) CommittedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, recs := range s.committed {
		n += len(recs)
	}
	return n
}

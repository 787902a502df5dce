package snapshot

import (
	"fmt"

	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/navmesh"
	"github.com/udisondev/navspawn/internal/world"
)

// Version is the only snapshot format version understood by this package.
const Version = 1

// FileV1 is the on-disk world snapshot.
type FileV1 struct {
	Version   int          `json:"version"`
	Templates []TemplateV1 `json:"templates"`
	Areas     []AreaV1     `json:"areas"`
}

type TemplateV1 struct {
	ID            uint32   `json:"id"`
	Kind          string   `json:"kind"`
	Template      uint32   `json:"template,omitempty"`
	Flags         uint32   `json:"flags,omitempty"`
	TemplateFlags uint16   `json:"template_flags,omitempty"`
	Factions      []uint32 `json:"factions,omitempty"`
	Entries       []uint32 `json:"entries,omitempty"`
}

type AreaV1 struct {
	ID           uint32       `json:"id"`
	Worldspace   string       `json:"worldspace,omitempty"`
	Npcs         []NpcV1      `json:"npcs,omitempty"`
	Navmesh      *NavmeshV1   `json:"navmesh,omitempty"`
	PlayerStarts [][3]float64 `json:"player_starts,omitempty"`
}

type NpcV1 struct {
	ID          uint32     `json:"id"`
	Base        uint32     `json:"base"`
	Position    [3]float64 `json:"position"`
	Rotation    float64    `json:"rotation,omitempty"`
	Scale       float64    `json:"scale,omitempty"`
	StartsDead  bool       `json:"starts_dead,omitempty"`
	Persistent  bool       `json:"persistent,omitempty"`
	LocationRef uint32     `json:"location_ref,omitempty"`
	LinkedRefs  []uint32   `json:"linked_refs,omitempty"`
}

type NavmeshV1 struct {
	Vertices  [][3]float64 `json:"vertices"`
	Triangles [][3]int     `json:"triangles"`
}

func toPoint(p [3]float64) model.Point3 {
	return model.NewPoint3(p[0], p[1], p[2])
}

func fromPoint(p model.Point3) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

func toIDs(ids []uint32) []model.FormID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]model.FormID, len(ids))
	for i, id := range ids {
		out[i] = model.FormID(id)
	}
	return out
}

func fromIDs(ids []model.FormID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

// toTemplates converts the template section.
func (f *FileV1) toTemplates() ([]*model.Template, error) {
	out := make([]*model.Template, 0, len(f.Templates))
	for _, t := range f.Templates {
		switch t.Kind {
		case model.KindNpc.String():
			out = append(out, model.NewNpc(
				model.FormID(t.ID),
				model.FormID(t.Template),
				model.NpcFlag(t.Flags),
				model.TemplateFlag(t.TemplateFlags),
				toIDs(t.Factions)...,
			))
		case model.KindLeveledList.String():
			out = append(out, model.NewLeveledList(model.FormID(t.ID), toIDs(t.Entries)...))
		default:
			return nil, fmt.Errorf("template %s: unknown kind %q", model.FormID(t.ID), t.Kind)
		}
	}
	return out, nil
}

func (f *FileV1) toAreas() ([]*world.Area, error) {
	out := make([]*world.Area, 0, len(f.Areas))
	for _, a := range f.Areas {
		area := &world.Area{
			ID:         model.AreaID(a.ID),
			Worldspace: a.Worldspace,
		}
		for _, n := range a.Npcs {
			area.Npcs = append(area.Npcs, model.PlacedNpc{
				ID:          model.FormID(n.ID),
				Base:        model.FormID(n.Base),
				Position:    toPoint(n.Position),
				Rotation:    n.Rotation,
				Scale:       n.Scale,
				StartsDead:  n.StartsDead,
				Persistent:  n.Persistent,
				LocationRef: model.FormID(n.LocationRef),
				LinkedRefs:  toIDs(n.LinkedRefs),
			})
		}
		if a.Navmesh != nil {
			verts := make([]model.Point3, len(a.Navmesh.Vertices))
			for i, v := range a.Navmesh.Vertices {
				verts[i] = toPoint(v)
			}
			tris, err := navmesh.Triangles(verts, a.Navmesh.Triangles)
			if err != nil {
				return nil, fmt.Errorf("area %s navmesh: %w", area.ID, err)
			}
			area.Triangles = tris
		}
		for _, p := range a.PlayerStarts {
			area.PlayerStarts = append(area.PlayerStarts, toPoint(p))
		}
		out = append(out, area)
	}
	return out, nil
}

// FromWorld builds a snapshot file from in-memory world data.
func FromWorld(s *world.Snapshot) *FileV1 {
	f := &FileV1{Version: Version}

	for _, t := range s.TemplateList() {
		tv := TemplateV1{ID: uint32(t.ID), Kind: t.Kind.String()}
		switch t.Kind {
		case model.KindNpc:
			tv.Template = uint32(t.Template)
			tv.Flags = uint32(t.Flags)
			tv.TemplateFlags = uint16(t.TemplateFlags)
			tv.Factions = fromIDs(t.Factions)
		case model.KindLeveledList:
			tv.Entries = fromIDs(t.Entries)
		}
		f.Templates = append(f.Templates, tv)
	}

	for _, a := range s.AreaList() {
		av := AreaV1{ID: uint32(a.ID), Worldspace: a.Worldspace}
		for _, n := range a.Npcs {
			av.Npcs = append(av.Npcs, NpcV1{
				ID:          uint32(n.ID),
				Base:        uint32(n.Base),
				Position:    fromPoint(n.Position),
				Rotation:    n.Rotation,
				Scale:       n.Scale,
				StartsDead:  n.StartsDead,
				Persistent:  n.Persistent,
				LocationRef: uint32(n.LocationRef),
				LinkedRefs:  fromIDs(n.LinkedRefs),
			})
		}
		if len(a.Triangles) > 0 {
			verts, idx := navmesh.Index(a.Triangles)
			nm := &NavmeshV1{Vertices: make([][3]float64, len(verts)), Triangles: idx}
			for i, v := range verts {
				nm.Vertices[i] = fromPoint(v)
			}
			av.Navmesh = nm
		}
		for _, p := range a.PlayerStarts {
			av.PlayerStarts = append(av.PlayerStarts, fromPoint(p))
		}
		f.Areas = append(f.Areas, av)
	}
	return f
}

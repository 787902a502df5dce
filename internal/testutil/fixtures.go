// Package testutil holds world fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/world"
)

// Fixtures содержит идентификаторы тестового мира, чтобы не дублировать их в тестах.
var Fixtures = struct {
	InteriorWorldspace string
	ExteriorWorldspace string

	ExteriorArea model.AreaID
	InteriorArea model.AreaID

	RespawnNpc model.FormID // respawning character, factions A and B
	UniqueNpc  model.FormID // inherits factions from its list
	List       model.FormID // first entry RespawnNpc

	FactionA model.FormID
	FactionB model.FormID
}{
	InteriorWorldspace: "Blackreach",
	ExteriorWorldspace: "Tamriel",

	ExteriorArea: 0x3C,
	InteriorArea: 0x3D,

	RespawnNpc: 0x10,
	UniqueNpc:  0x11,
	List:       0xA0,

	FactionA: 0xF1,
	FactionB: 0xF2,
}

// Classifier returns the classifier the fixtures are built for.
func Classifier() world.Classifier {
	return world.NewClassifier(config.Classification{
		InteriorWorldspaces: []string{Fixtures.InteriorWorldspace},
	})
}

// SampleTemplates returns a list whose first entry is a respawning character
// plus a unique character templated on that list.
func SampleTemplates() []*model.Template {
	f := Fixtures
	return []*model.Template{
		model.NewLeveledList(f.List, f.RespawnNpc, f.UniqueNpc),
		model.NewNpc(f.RespawnNpc, 0, model.NpcFlagRespawn, model.TemplateUseTraits, f.FactionA, f.FactionB),
		model.NewNpc(f.UniqueNpc, f.List, model.NpcFlagUnique, model.TemplateUseFactions),
	}
}

// SampleWorld returns a two-area world exercising every stored field.
func SampleWorld(tb testing.TB) *world.Snapshot {
	tb.Helper()
	f := Fixtures
	a, b, c, d := model.NewPoint3(0, 0, 0), model.NewPoint3(100, 0, 5), model.NewPoint3(0, 100, 0), model.NewPoint3(100, 100, 5)

	areas := []*world.Area{
		{
			ID:         f.InteriorArea,
			Worldspace: f.InteriorWorldspace,
			Npcs: []model.PlacedNpc{
				{ID: 0x2001, Base: f.List, Position: model.NewPoint3(500, 0, 0), Scale: 1},
			},
		},
		{
			ID:         f.ExteriorArea,
			Worldspace: f.ExteriorWorldspace,
			Npcs: []model.PlacedNpc{
				{ID: 0x1001, Base: f.List, Position: model.NewPoint3(1000, 0, 0), Scale: 1},
				{
					ID: 0x1002, Base: f.UniqueNpc, Position: model.NewPoint3(0, 1000, 12.5),
					Rotation: 1.5, Scale: 0.9, StartsDead: true, Persistent: true,
					LocationRef: 0x77, LinkedRefs: []model.FormID{0x78, 0x79},
				},
			},
			Triangles:    []model.Triangle{{a, b, c}, {b, d, c}},
			PlayerStarts: []model.Point3{model.NewPoint3(50, 50, 0)},
		},
	}

	s, err := world.NewSnapshot(areas, SampleTemplates(), Classifier())
	if err != nil {
		tb.Fatalf("building sample world: %v", err)
	}
	return s
}

// SampleRecords returns n spawn records in the exterior fixture area.
func SampleRecords(n int) []model.SpawnRecord {
	recs := make([]model.SpawnRecord, n)
	for i := range recs {
		recs[i] = model.SpawnRecord{
			Area:     Fixtures.ExteriorArea,
			Base:     Fixtures.List,
			Source:   model.FormID(0x1000 + i),
			Position: model.NewPoint3(float64(i)*10.5, -5.5, 1.25),
			Heading:  0.5,
			Scale:    1,
		}
	}
	return recs
}

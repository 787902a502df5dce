package testutil

import (
	"math/rand/v2"
	"testing"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/world"
)

// WorldSpec describes a generated world.
type WorldSpec struct {
	Seed      uint64
	Areas     int
	Npcs      int // per area
	Triangles int // per area
	Extent    float64
	Templates []*model.Template
	Bases     []model.FormID // placed characters draw their base from here
}

// CentroidAt returns a triangle whose centroid is (x, y, z).
func CentroidAt(x, y, z float64) model.Triangle {
	return model.Triangle{
		model.NewPoint3(x-3, y-3, z),
		model.NewPoint3(x+6, y-3, z),
		model.NewPoint3(x-3, y+6, z),
	}
}

// RandomWorld builds a reproducible world. Even areas are exterior, odd
// areas interior; area 1 has a player start in its middle. Every tenth
// character starts dead on average.
func RandomWorld(tb testing.TB, opt WorldSpec) *world.Snapshot {
	tb.Helper()
	r := rand.New(rand.NewPCG(opt.Seed, 0))

	areas := make([]*world.Area, 0, opt.Areas)
	for i := range opt.Areas {
		ws := ""
		if i%2 == 0 {
			ws = Fixtures.ExteriorWorldspace
		}
		a := &world.Area{ID: model.AreaID(0x100 + i), Worldspace: ws}
		for j := range opt.Npcs {
			a.Npcs = append(a.Npcs, model.PlacedNpc{
				ID:         model.FormID(0x1000*(i+1) + j),
				Base:       opt.Bases[r.IntN(len(opt.Bases))],
				Position:   model.NewPoint3(r.Float64()*opt.Extent, r.Float64()*opt.Extent, r.Float64()*200),
				Scale:      1,
				StartsDead: r.IntN(10) == 0,
			})
		}
		for range opt.Triangles {
			a.Triangles = append(a.Triangles, CentroidAt(r.Float64()*opt.Extent, r.Float64()*opt.Extent, r.Float64()*200))
		}
		if i == 1 {
			a.PlayerStarts = []model.Point3{model.NewPoint3(opt.Extent/2, opt.Extent/2, 0)}
		}
		areas = append(areas, a)
	}

	s, err := world.NewSnapshot(areas, opt.Templates, world.NewClassifier(config.Classification{}))
	if err != nil {
		tb.Fatalf("building random world: %v", err)
	}
	return s
}

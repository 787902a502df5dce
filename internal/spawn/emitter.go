package spawn

import (
	"math"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/template"
)

// Emitter materializes scheduled candidates into spawn records.
type Emitter struct {
	area     model.AreaID
	settings config.DomainSettings
	catalog  *template.Catalog
	starts   []model.Point3
	rng      Rand
}

// NewEmitter creates an Emitter for one area.
func NewEmitter(area model.AreaID, settings config.DomainSettings, catalog *template.Catalog, starts []model.Point3, rng Rand) *Emitter {
	return &Emitter{
		area:     area,
		settings: settings,
		catalog:  catalog,
		starts:   starts,
		rng:      rng,
	}
}

// Emit clones the candidate's source placement at the candidate position.
// The clone faces the nearest player start, or a random heading without one.
func (e *Emitter) Emit(c *Candidate) model.SpawnRecord {
	rec := model.CloneSpawn(e.area, c.Source, c.Position, e.heading(c.Position))
	if e.settings.ClusterSpawnRoot {
		if root, ok := e.catalog.Root(c.Source.Base); ok {
			rec.Base = root
		}
	}
	return rec
}

func (e *Emitter) heading(pos model.Point3) float64 {
	if len(e.starts) == 0 {
		return e.rng.Float64() * 2 * math.Pi
	}
	w := e.settings.VerticalDistanceWeight
	nearest := e.starts[0]
	best := pos.WeightedDistanceSquared(nearest, w)
	for _, s := range e.starts[1:] {
		if d := pos.WeightedDistanceSquared(s, w); d < best {
			nearest, best = s, d
		}
	}
	return pos.HeadingTo(nearest)
}

package spawn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/template"
	"github.com/udisondev/navspawn/internal/world"
)

const (
	factionA model.FormID = 0xF1
	factionB model.FormID = 0xF2
)

// baseSettings — настройки без случайности и без ограничений по игроку.
func baseSettings() config.DomainSettings {
	return config.DomainSettings{
		Enabled:                               true,
		DistanceToExistingNpcMin:              500,
		DistanceToExistingNpcMax:              10000,
		DistanceToPlayerSpawn:                 -1,
		IgnoreExistingDeadNpc:                 true,
		VerticalDistanceWeight:                1,
		MinimumNumExistingNpcsNearby:          1,
		PreventionMethod:                      config.PreventionNever,
		PreventionDistanceFactor:              1,
		ClusterSpawnChance:                    []float64{0, 1},
		ClusterMinimumDistanceToOtherClusters: 0,
		ClusterSpawnRadius:                    0,
	}
}

// testTemplates returns a small template graph:
//
//	0xA0 → 0x10 (factions A),   root 0xB0 (0xB0 → 0xA0)
//	0xA1 → 0x11 (factions B),   root 0xA1
//	0xA2 → 0x12 (factions A,B), root 0xA2
//	0xA3 → 0x13 (unique)
//	0xC0 → 0x14 (factions A),   ambiguous (0xC0 and 0xC1 both list 0x14, C0 listed by nobody)
//	0xE0 → 0x16 (factions A),   ambiguous (0xE1 and 0xE2 both list 0xE0)
//	0x15 templated on 0xE0,     no root
//	0x17 on 0xA0, 0x18 on 0xB0, representative 0x17 (flag superset)
func testTemplates() []*model.Template {
	respawn := model.NpcFlagRespawn
	return []*model.Template{
		model.NewNpc(0x10, 0, respawn, 0, factionA),
		model.NewNpc(0x11, 0, respawn, 0, factionB),
		model.NewNpc(0x12, 0, respawn, 0, factionA, factionB),
		model.NewNpc(0x13, 0, respawn|model.NpcFlagUnique, 0, factionA),
		model.NewNpc(0x14, 0, respawn, 0, factionA),
		model.NewNpc(0x15, 0xE0, 0, model.TemplateUseTraits),
		model.NewNpc(0x16, 0, respawn, 0, factionA),
		model.NewNpc(0x17, 0xA0, 0, model.TemplateUseTraits|model.TemplateUseFactions),
		model.NewNpc(0x18, 0xB0, 0, model.TemplateUseTraits),
		model.NewLeveledList(0xA0, 0x10),
		model.NewLeveledList(0xA1, 0x11),
		model.NewLeveledList(0xA2, 0x12),
		model.NewLeveledList(0xA3, 0x13),
		model.NewLeveledList(0xB0, 0xA0),
		model.NewLeveledList(0xC0, 0x14),
		model.NewLeveledList(0xC1, 0x14),
		model.NewLeveledList(0xD0, 0xC0),
		model.NewLeveledList(0xD1, 0xC1),
		model.NewLeveledList(0xE0, 0x16),
		model.NewLeveledList(0xE1, 0xE0),
		model.NewLeveledList(0xE2, 0xE0),
	}
}

func npcAt(id, base model.FormID, x, y, z float64) model.PlacedNpc {
	return model.PlacedNpc{ID: id, Base: base, Position: model.NewPoint3(x, y, z), Scale: 1}
}

func newTestSnapshot(t *testing.T, areas ...*world.Area) *world.Snapshot {
	t.Helper()
	cl := world.NewClassifier(config.Classification{})
	s, err := world.NewSnapshot(areas, testTemplates(), cl)
	require.NoError(t, err)
	return s
}

func catalogFor(t *testing.T, npcs []model.PlacedNpc) *template.Catalog {
	t.Helper()
	s := newTestSnapshot(t)
	bases := make([]model.FormID, len(npcs))
	for i, n := range npcs {
		bases[i] = n.Base
	}
	return template.BuildCatalog(s, bases)
}

// seqRand returns a fixed sequence and never reorders.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func (r *seqRand) Shuffle(int, func(i, j int)) {}

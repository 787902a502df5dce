package spawn

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/template"
	"github.com/udisondev/navspawn/internal/world"
)

// Rejection explains why a candidate point was not validated.
type Rejection uint8

const (
	Accepted Rejection = iota
	RejectPlayerStart
	RejectTooFewNeighbors
	RejectTooClose
	RejectInvalidBasis
	RejectStartsDead
	RejectPreventedID
	RejectPreventedFaction
	RejectPreventedRoot
	RejectAnomaly
)

var rejectionNames = [...]string{
	Accepted:               "accepted",
	RejectPlayerStart:      "player_start",
	RejectTooFewNeighbors:  "too_few_neighbors",
	RejectTooClose:         "too_close",
	RejectInvalidBasis:     "invalid_basis",
	RejectStartsDead:       "starts_dead",
	RejectPreventedID:      "prevented_id",
	RejectPreventedFaction: "prevented_faction",
	RejectPreventedRoot:    "prevented_root",
	RejectAnomaly:          "anomaly",
}

func (r Rejection) String() string {
	if int(r) < len(rejectionNames) {
		return rejectionNames[r]
	}
	return "unknown"
}

type neighbor struct {
	idx  int
	dist float64
}

// Validator decides whether a candidate point may receive a spawn and which
// existing character it is cloned from. Read-only after construction.
type Validator struct {
	area     model.AreaID
	settings config.DomainSettings
	catalog  *template.Catalog
	pool     []model.PlacedNpc
	grid     *world.Grid
	starts   []model.Point3
}

// NewValidator builds the neighbor index of an area. Dead characters are left
// out of the pool when the domain ignores them.
func NewValidator(area model.AreaID, settings config.DomainSettings, catalog *template.Catalog, npcs []model.PlacedNpc, starts []model.Point3) *Validator {
	pool := make([]model.PlacedNpc, 0, len(npcs))
	for _, npc := range npcs {
		if settings.IgnoreExistingDeadNpc && npc.StartsDead {
			continue
		}
		pool = append(pool, npc)
	}

	positions := make([]model.Point3, len(pool))
	for i := range pool {
		positions[i] = pool[i].Position
	}

	return &Validator{
		area:     area,
		settings: settings,
		catalog:  catalog,
		pool:     pool,
		grid:     world.NewGrid(positions, math.Max(settings.DistanceToExistingNpcMax, 1)),
		starts:   starts,
	}
}

// PoolSize returns the number of characters considered as neighbors.
func (v *Validator) PoolSize() int {
	return len(v.pool)
}

// Validate runs the proximity checks for p. On success it returns the nearest
// character, whose base becomes the spawn template.
func (v *Validator) Validate(p model.Point3) (*model.PlacedNpc, Rejection) {
	s := v.settings
	w := s.VerticalDistanceWeight

	if s.DistanceToPlayerSpawn >= 0 {
		for _, start := range v.starts {
			if p.WeightedDistance(start, w) <= s.DistanceToPlayerSpawn {
				return nil, RejectPlayerStart
			}
		}
	}

	neighbors := v.within(p, s.DistanceToExistingNpcMax)
	if len(neighbors) == 0 || len(neighbors) < s.MinimumNumExistingNpcsNearby {
		return nil, RejectTooFewNeighbors
	}
	slices.SortFunc(neighbors, func(a, b neighbor) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})

	nearest := neighbors[0]
	if nearest.dist < s.DistanceToExistingNpcMin {
		return nil, RejectTooClose
	}
	src := &v.pool[nearest.idx]
	info := v.catalog.Info(src.Base)
	if !info.Valid {
		return nil, RejectInvalidBasis
	}
	if src.StartsDead {
		return nil, RejectStartsDead
	}

	// Neighbors between the nearest and the density rank only establish
	// density; the rank itself sets the prevention radius.
	rank := max(s.MinimumNumExistingNpcsNearby, 1) - 1
	if rank >= len(neighbors) {
		slog.Warn("neighbor rank missing after density check",
			"area", v.area,
			"point", p,
			"rank", rank,
			"found", len(neighbors))
		return nil, RejectAnomaly
	}
	farthest := neighbors[rank]

	if s.PreventionMethod == config.PreventionNever {
		return src, Accepted
	}

	radius := farthest.dist * s.PreventionDistanceFactor
	if why := v.prevent(p, radius, src, info); why != Accepted {
		return nil, why
	}
	return src, Accepted
}

// within returns every pool character at weighted distance <= radius from p.
func (v *Validator) within(p model.Point3, radius float64) []neighbor {
	var out []neighbor
	w := v.settings.VerticalDistanceWeight
	v.grid.Candidates(p, radius, func(i int) {
		if d := v.pool[i].Position.WeightedDistance(p, w); d <= radius {
			out = append(out, neighbor{idx: i, dist: d})
		}
	})
	return out
}

// prevent applies the domain's prevention method to every character within radius.
func (v *Validator) prevent(p model.Point3, radius float64, src *model.PlacedNpc, info template.Info) Rejection {
	var (
		srcRoot   model.FormID
		srcRootOK bool
	)
	if v.settings.PreventionMethod == config.PreventionRoot {
		srcRoot, srcRootOK = v.catalog.Root(src.Base)
	}

	for _, n := range v.within(p, radius) {
		other := &v.pool[n.idx]
		switch v.settings.PreventionMethod {
		case config.PreventionID:
			if other.Base != src.Base {
				return RejectPreventedID
			}
		case config.PreventionFaction:
			if !v.catalog.Info(other.Base).Factions.Intersects(info.Factions) {
				return RejectPreventedFaction
			}
		case config.PreventionRoot:
			root, ok := v.catalog.Root(other.Base)
			if !srcRootOK || !ok || root != srcRoot {
				return RejectPreventedRoot
			}
		}
	}
	return Accepted
}

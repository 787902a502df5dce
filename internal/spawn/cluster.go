package spawn

import (
	"math"
	"sort"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
)

// Candidate is a validated point together with the character it clones.
type Candidate struct {
	Position model.Point3
	Source   *model.PlacedNpc

	removed bool // taken by a cluster, final once set
}

// Cluster is one scheduler iteration: the seed, the drawn size and the
// candidates chosen for spawning (at most Size).
type Cluster struct {
	Seed    model.Point3
	Size    int
	Members []*Candidate
}

// Scheduler turns validated candidates into clusters.
type Scheduler struct {
	settings   config.DomainSettings
	rng        Rand
	cumulative []float64
	total      float64
	expected   float64
}

// NewScheduler precomputes the cumulative cluster-size distribution.
func NewScheduler(settings config.DomainSettings, rng Rand) *Scheduler {
	s := &Scheduler{
		settings:   settings,
		rng:        rng,
		cumulative: make([]float64, len(settings.ClusterSpawnChance)),
	}
	weighted := 0.0
	for i, w := range settings.ClusterSpawnChance {
		s.total += w
		s.cumulative[i] = s.total
		weighted += float64(i) * w
	}
	if s.total > 0 {
		s.expected = weighted / s.total
	}
	return s
}

// ExpectedSize returns the weighted mean cluster size.
func (s *Scheduler) ExpectedSize() float64 {
	return s.expected
}

// Schedule shuffles cands and consumes them seed by seed until none remain.
func (s *Scheduler) Schedule(cands []*Candidate) []Cluster {
	remaining := make([]*Candidate, len(cands))
	copy(remaining, cands)
	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	if s.total <= 0 {
		return nil
	}

	var (
		clusters  []Cluster
		spawned   int
		processed int
		w         = s.settings.VerticalDistanceWeight
		radius    = s.settings.ClusterSpawnRadius
		spacing   = s.settings.ClusterMinimumDistanceToOtherClusters
	)

	for len(remaining) > 0 {
		size := s.sizeFor(s.draw(spawned, processed))
		processed++

		seed := remaining[0]
		var pool []*Candidate
		for i, c := range remaining {
			d := c.Position.WeightedDistance(seed.Position, w)
			if d <= radius {
				pool = append(pool, c)
			}
			if i == 0 || d <= spacing {
				c.removed = true
			}
		}

		n := min(size, len(pool))
		members := pool[:n:n]
		for _, c := range members {
			c.removed = true
		}
		spawned += n

		kept := remaining[:0]
		for _, c := range remaining {
			if !c.removed {
				kept = append(kept, c)
			}
		}
		remaining = kept

		clusters = append(clusters, Cluster{Seed: seed.Position, Size: size, Members: members})
	}

	return clusters
}

// draw returns a value in (0, total]. With pseudo-random sampling the value
// is remapped to pull the running spawn rate back toward the expectation;
// it may then drop to zero or below, which selects the first size.
func (s *Scheduler) draw(spawned, processed int) float64 {
	u := s.total * (1 - s.rng.Float64())
	if !s.settings.ClusterUsePseudoRandom || processed == 0 || s.expected <= 0 {
		return u
	}

	n := float64(processed)
	accuracy := float64(spawned) / (s.expected * n)
	accuracy = math.Min(math.Max(accuracy, 1/math.Sqrt(n)), math.Sqrt(n))
	t := math.Pow(accuracy, n)

	// total*(1-t) + u*t, written so a huge t saturates instead of overflowing
	r := s.total - t*(s.total-u)
	if math.IsNaN(r) {
		return s.total
	}
	return r
}

// sizeFor returns the smallest histogram index whose cumulative weight >= u.
func (s *Scheduler) sizeFor(u float64) int {
	i := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] >= u
	})
	if i == len(s.cumulative) {
		i--
	}
	return i
}

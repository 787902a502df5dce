package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/navspawn/internal/model"
)

func lineCandidates(n int, step float64) []*Candidate {
	src := &model.PlacedNpc{ID: 1, Base: 0xA0}
	out := make([]*Candidate, n)
	for i := range out {
		out[i] = &Candidate{Position: model.NewPoint3(float64(i)*step, 0, 0), Source: src}
	}
	return out
}

func memberXs(c Cluster) []float64 {
	xs := make([]float64, len(c.Members))
	for i, m := range c.Members {
		xs[i] = m.Position.X
	}
	return xs
}

func TestScheduler_ZeroSizeHistogramSpawnsNothing(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{1, 0}

	clusters := NewScheduler(s, &seqRand{vals: []float64{0, 0.3, 0.99}}).Schedule(lineCandidates(10, 1000))

	require.Len(t, clusters, 10, "each isolated point seeds its own cluster")
	for _, c := range clusters {
		assert.Zero(t, c.Size)
		assert.Empty(t, c.Members)
	}
}

func TestScheduler_EmptyHistogram(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{0, 0}

	assert.Nil(t, NewScheduler(s, &seqRand{}).Schedule(lineCandidates(5, 100)))
}

func TestScheduler_GroupsAroundSeeds(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{0, 0, 1}
	s.ClusterSpawnRadius = 250
	s.ClusterMinimumDistanceToOtherClusters = 250

	clusters := NewScheduler(s, &seqRand{vals: []float64{0.5}}).Schedule(lineCandidates(11, 100))

	require.Len(t, clusters, 4)
	want := [][]float64{{0, 100}, {300, 400}, {600, 700}, {900, 1000}}
	for i, c := range clusters {
		assert.Equal(t, 2, c.Size)
		assert.Equal(t, want[i][0], c.Seed.X)
		assert.Equal(t, want[i], memberXs(c))
	}
}

func TestScheduler_NeverEmitsTwice(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{0, 0, 0, 1}
	s.ClusterSpawnRadius = 300
	s.ClusterMinimumDistanceToOtherClusters = 50

	clusters := NewScheduler(s, &seqRand{vals: []float64{0.5}}).Schedule(lineCandidates(6, 100))

	seen := make(map[float64]bool)
	total := 0
	for _, c := range clusters {
		for _, x := range memberXs(c) {
			assert.False(t, seen[x], "point %v emitted twice", x)
			seen[x] = true
			total++
		}
	}
	assert.Equal(t, 6, total)
}

func TestScheduler_SeedsRespectSpacing(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{200, 15, 25, 21, 8, 2}
	s.ClusterSpawnRadius = 300
	s.ClusterMinimumDistanceToOtherClusters = 400
	s.VerticalDistanceWeight = 2

	r := rand.New(rand.NewPCG(7, 11))
	src := &model.PlacedNpc{ID: 1, Base: 0xA0}
	cands := make([]*Candidate, 500)
	for i := range cands {
		cands[i] = &Candidate{
			Position: model.NewPoint3(r.Float64()*5000, r.Float64()*5000, r.Float64()*100),
			Source:   src,
		}
	}

	clusters := NewScheduler(s, r).Schedule(cands)
	require.NotEmpty(t, clusters)

	w := s.VerticalDistanceWeight
	for i, a := range clusters {
		assert.LessOrEqual(t, len(a.Members), a.Size)
		for _, m := range a.Members {
			assert.LessOrEqual(t, m.Position.WeightedDistance(a.Seed, w), s.ClusterSpawnRadius)
		}
		for _, b := range clusters[i+1:] {
			assert.Greater(t, a.Seed.WeightedDistance(b.Seed, w), s.ClusterMinimumDistanceToOtherClusters)
		}
	}
}

func TestScheduler_PseudoRandomTracksExpectation(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{1, 1}
	s.ClusterUsePseudoRandom = true

	const n = 2000
	clusters := NewScheduler(s, rand.New(rand.NewPCG(3, 5))).Schedule(lineCandidates(n, 1000))
	require.Len(t, clusters, n)

	spawned := 0
	for _, c := range clusters {
		spawned += len(c.Members)
	}
	assert.InDelta(t, 0.5, float64(spawned)/n, 0.05)
}

func TestScheduler_PseudoRandomDrawBounded(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{1, 1}
	s.ClusterUsePseudoRandom = true
	sch := NewScheduler(s, rand.New(rand.NewPCG(1, 2)))

	tests := []struct {
		name               string
		spawned, processed int
	}{
		{"first iteration", 0, 0},
		{"far behind", 0, 500},
		{"on track", 50, 100},
		{"far ahead", 1000, 10},
		{"long run ahead", 2000, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 100 {
				u := sch.draw(tt.spawned, tt.processed)
				assert.False(t, math.IsNaN(u), "NaN draw")
				assert.LessOrEqual(t, u, sch.total)
				size := sch.sizeFor(u)
				assert.GreaterOrEqual(t, size, 0)
				assert.Less(t, size, len(s.ClusterSpawnChance))
			}
		})
	}
}

func TestScheduler_SizeFor(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{2, 0, 1, 1}
	sch := NewScheduler(s, &seqRand{})

	tests := []struct {
		u    float64
		want int
	}{
		{0.001, 0},
		{2, 0},
		{2.5, 2},
		{3, 2},
		{3.2, 3},
		{4, 3},
		{5, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sch.sizeFor(tt.u), "u=%v", tt.u)
	}
}

func TestScheduler_ExpectedSize(t *testing.T) {
	s := baseSettings()
	s.ClusterSpawnChance = []float64{200, 15, 25, 21, 8, 2}

	assert.InDelta(t, 170.0/271.0, NewScheduler(s, &seqRand{}).ExpectedSize(), 1e-12)
}

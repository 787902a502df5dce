package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/testutil"
)

func TestCentroids(t *testing.T) {
	tris := []model.Triangle{
		{model.NewPoint3(0, 0, 0), model.NewPoint3(3, 0, 0), model.NewPoint3(0, 3, 0)},
		{model.NewPoint3(-3, -3, 9), model.NewPoint3(3, 3, 0), model.NewPoint3(0, 0, 0)},
		// duplicates are kept
		{model.NewPoint3(0, 0, 0), model.NewPoint3(3, 0, 0), model.NewPoint3(0, 3, 0)},
	}

	got := Centroids(tris)
	require.Len(t, got, 3)
	testutil.AssertPointInDelta(t, model.NewPoint3(1, 1, 0), got[0], 1e-9)
	testutil.AssertPointInDelta(t, model.NewPoint3(0, 0, 3), got[1], 1e-9)
	assert.Equal(t, got[0], got[2])
}

func TestCentroids_Empty(t *testing.T) {
	assert.Empty(t, Centroids(nil))
}

func TestTriangles(t *testing.T) {
	verts := []model.Point3{
		model.NewPoint3(0, 0, 0),
		model.NewPoint3(10, 0, 0),
		model.NewPoint3(0, 10, 0),
		model.NewPoint3(10, 10, 0),
	}

	tris, err := Triangles(verts, [][3]int{{0, 1, 2}, {1, 3, 2}})
	require.NoError(t, err)
	require.Len(t, tris, 2)
	assert.Equal(t, verts[3], tris[1][1])

	_, err = Triangles(verts, [][3]int{{0, 1, 4}})
	assert.Error(t, err)
}

func TestIndex_RoundTrip(t *testing.T) {
	a, b, c, d := model.NewPoint3(0, 0, 0), model.NewPoint3(10, 0, 0), model.NewPoint3(0, 10, 0), model.NewPoint3(10, 10, 0)
	tris := []model.Triangle{{a, b, c}, {b, d, c}}

	verts, idx := Index(tris)
	assert.Len(t, verts, 4, "shared vertices stored once")
	assert.Equal(t, [][3]int{{0, 1, 2}, {1, 3, 2}}, idx)

	back, err := Triangles(verts, idx)
	require.NoError(t, err)
	assert.Equal(t, tris, back)
}

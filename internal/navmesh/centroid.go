// Package navmesh turns walkable-mesh geometry into candidate spawn points.
package navmesh

import (
	"fmt"

	"github.com/udisondev/navspawn/internal/model"
)

// Centroid returns the arithmetic mean of the triangle's vertices.
func Centroid(t model.Triangle) model.Point3 {
	return t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3.0)
}

// Centroids yields exactly one point per triangle, in input order.
// No deduplication or filtering happens here.
func Centroids(triangles []model.Triangle) []model.Point3 {
	points := make([]model.Point3, len(triangles))
	for i, t := range triangles {
		points[i] = Centroid(t)
	}
	return points
}

// Triangles builds triangles from an indexed vertex array.
// Meshes store each triangle as three indices into vertices.
func Triangles(vertices []model.Point3, indices [][3]int) ([]model.Triangle, error) {
	out := make([]model.Triangle, 0, len(indices))
	for i, idx := range indices {
		var t model.Triangle
		for k, v := range idx {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", i, v, len(vertices))
			}
			t[k] = vertices[v]
		}
		out = append(out, t)
	}
	return out, nil
}

// Index is the inverse of Triangles: it shares equal vertices and returns
// the vertex array with per-triangle indices.
func Index(triangles []model.Triangle) ([]model.Point3, [][3]int) {
	var (
		vertices []model.Point3
		indices  = make([][3]int, len(triangles))
		seen     = make(map[model.Point3]int)
	)
	for i, t := range triangles {
		for k, v := range t {
			idx, ok := seen[v]
			if !ok {
				idx = len(vertices)
				seen[v] = idx
				vertices = append(vertices, v)
			}
			indices[i][k] = idx
		}
	}
	return vertices, indices
}

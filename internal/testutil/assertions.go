package testutil

import (
	"testing"

	"github.com/udisondev/navspawn/internal/model"
)

// AssertPointInDelta проверяет, что точки совпадают покоординатно с точностью delta.
func AssertPointInDelta(t testing.TB, expected, actual model.Point3, delta float64) {
	t.Helper()

	d := [3]float64{expected.X - actual.X, expected.Y - actual.Y, expected.Z - actual.Z}
	for i, v := range d {
		if v > delta || v < -delta {
			t.Errorf("point mismatch on axis %d: expected %+v, got %+v (delta %g)", i, expected, actual, delta)
			return
		}
	}
}

// AssertUniquePositions проверяет, что в пределах одной area нет двух записей в одной точке.
func AssertUniquePositions(t testing.TB, recs []model.SpawnRecord) {
	t.Helper()

	type key struct {
		area model.AreaID
		pos  model.Point3
	}
	seen := make(map[key]int, len(recs))
	for i, rec := range recs {
		k := key{rec.Area, rec.Position}
		if j, dup := seen[k]; dup {
			t.Errorf("records %d and %d share position %+v in area %s", j, i, rec.Position, rec.Area)
			return
		}
		seen[k] = i
	}
}

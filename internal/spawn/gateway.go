package spawn

import (
	"github.com/udisondev/navspawn/internal/model"
)

// Gateway supplies world data and accepts generated spawns.
// Queries are synchronous and side-effect free; only CommitSpawn writes.
type Gateway interface {
	Areas() []model.AreaID
	ExistingCharacters(area model.AreaID) []model.PlacedNpc
	WalkableTriangles(area model.AreaID) []model.Triangle
	PlayerStartMarkers(area model.AreaID) []model.Point3
	ClassifyArea(area model.AreaID) model.AreaDomain

	ResolveTemplate(id model.FormID) (*model.Template, bool)
	ListingParents(id model.FormID) []model.FormID
	Templates() []model.FormID

	CommitSpawn(area model.AreaID, rec model.SpawnRecord) error
}

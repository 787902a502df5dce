package model

// PlacedNpc is a hand-placed character reference in an area.
type PlacedNpc struct {
	ID         FormID
	Base       FormID // Template record, NPC or leveled list
	Position   Point3
	Rotation   float64 // yaw, radians
	Scale      float64
	StartsDead bool
	Persistent bool

	// Bindings that must not be inherited by a clone.
	LocationRef FormID
	LinkedRefs  []FormID
}

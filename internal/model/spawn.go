package model

// SpawnRecord is a generated placement. Terminal output, never mutated.
//
// With root substitution Base is the canonical root of the source base: the
// representative character for a character base, the root list for a
// leveled-list base.
type SpawnRecord struct {
	Area     AreaID
	Base     FormID // template to place
	Source   FormID // placed character the record was cloned from
	Position Point3
	Heading  float64 // yaw, radians
	Scale    float64

	// Always cleared on clone; kept so writers can persist the full record.
	Persistent  bool
	LocationRef FormID
	LinkedRefs  []FormID
}

// CloneSpawn copies the placement data of src into a new record at pos.
// Persistence and location bindings are stripped.
func CloneSpawn(area AreaID, src *PlacedNpc, pos Point3, heading float64) SpawnRecord {
	scale := src.Scale
	if scale == 0 {
		scale = 1
	}
	return SpawnRecord{
		Area:     area,
		Base:     src.Base,
		Source:   src.ID,
		Position: pos,
		Heading:  heading,
		Scale:    scale,
	}
}

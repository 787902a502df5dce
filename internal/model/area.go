package model

// AreaID identifies a cell (interior or exterior) holding placements and navmeshes.
type AreaID = FormID

// AreaDomain selects which settings block applies to an area.
type AreaDomain uint8

const (
	DomainInterior AreaDomain = iota
	DomainExterior
)

func (d AreaDomain) String() string {
	if d == DomainExterior {
		return "exterior"
	}
	return "interior"
}

// Triangle is one walkable navmesh triangle.
type Triangle [3]Point3

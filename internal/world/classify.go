package world

import (
	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/model"
)

// Classifier decides the AreaDomain of an area.
// Areas inside a worldspace are exterior unless the worldspace is listed as
// interior; areas outside any worldspace are interior unless listed as exterior.
type Classifier struct {
	interiorWorldspaces map[string]struct{}
	exteriorAreas       map[model.AreaID]struct{}
}

// NewClassifier creates a Classifier from the configured exceptions.
func NewClassifier(c config.Classification) Classifier {
	cl := Classifier{
		interiorWorldspaces: make(map[string]struct{}, len(c.InteriorWorldspaces)),
		exteriorAreas:       make(map[model.AreaID]struct{}, len(c.ExteriorAreas)),
	}
	for _, ws := range c.InteriorWorldspaces {
		cl.interiorWorldspaces[ws] = struct{}{}
	}
	for _, id := range c.ExteriorAreas {
		cl.exteriorAreas[id] = struct{}{}
	}
	return cl
}

// Classify returns the domain of area located in worldspace ("" for none).
func (c Classifier) Classify(area model.AreaID, worldspace string) model.AreaDomain {
	if worldspace == "" {
		if _, ok := c.exteriorAreas[area]; ok {
			return model.DomainExterior
		}
		return model.DomainInterior
	}
	if _, ok := c.interiorWorldspaces[worldspace]; ok {
		return model.DomainInterior
	}
	return model.DomainExterior
}

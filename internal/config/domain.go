package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prevention selects how neighbors around a candidate are compared with the
// character the spawn is cloned from.
type Prevention uint8

const (
	// PreventionID rejects when any neighbor has a different base record.
	PreventionID Prevention = iota
	// PreventionRoot rejects when roots differ or either side has no root.
	PreventionRoot
	// PreventionFaction rejects when faction sets do not intersect.
	PreventionFaction
	// PreventionNever disables the check.
	PreventionNever
)

var preventionNames = map[Prevention]string{
	PreventionID:      "id",
	PreventionRoot:    "root",
	PreventionFaction: "faction",
	PreventionNever:   "never",
}

func (p Prevention) String() string {
	if s, ok := preventionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("prevention(%d)", uint8(p))
}

// ParsePrevention parses a prevention method name (case-insensitive).
func ParsePrevention(s string) (Prevention, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range preventionNames {
		if name == s {
			return p, nil
		}
	}
	return PreventionNever, fmt.Errorf("unknown prevention method %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Prevention) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePrevention(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Prevention) MarshalYAML() (any, error) {
	return p.String(), nil
}

// DomainSettings holds the generation parameters for one area domain.
// Distances are in game units and always weighted (see VerticalDistanceWeight).
type DomainSettings struct {
	Enabled bool `yaml:"enabled"`

	DistanceToExistingNpcMin float64 `yaml:"distance_to_existing_npc_min"`
	DistanceToExistingNpcMax float64 `yaml:"distance_to_existing_npc_max"`
	DistanceToPlayerSpawn    float64 `yaml:"distance_to_player_spawn"` // negative disables
	IgnoreExistingDeadNpc    bool    `yaml:"ignore_existing_dead_npc"`
	VerticalDistanceWeight   float64 `yaml:"vertical_distance_weight"`

	MinimumNumExistingNpcsNearby int        `yaml:"minimum_num_existing_npcs_nearby"`
	PreventionMethod             Prevention `yaml:"prevention_method"`
	PreventionDistanceFactor     float64    `yaml:"prevention_distance_factor"`

	// ClusterSpawnChance[i] is the relative weight of a cluster of size i.
	ClusterSpawnChance                    []float64 `yaml:"cluster_spawn_chance"`
	ClusterMinimumDistanceToOtherClusters float64   `yaml:"cluster_minimum_distance_to_other_clusters"`
	ClusterSpawnRadius                    float64   `yaml:"cluster_spawn_radius"`
	ClusterUsePseudoRandom                bool      `yaml:"cluster_use_pseudo_random"`
	ClusterSpawnRoot                      bool      `yaml:"cluster_spawn_root"`
}

// DefaultInterior returns the interior (dungeon) defaults.
func DefaultInterior() DomainSettings {
	return DomainSettings{
		Enabled:                               true,
		DistanceToExistingNpcMin:              500,
		DistanceToExistingNpcMax:              25000,
		DistanceToPlayerSpawn:                 2500,
		IgnoreExistingDeadNpc:                 true,
		VerticalDistanceWeight:                4,
		MinimumNumExistingNpcsNearby:          2,
		PreventionMethod:                      PreventionNever,
		PreventionDistanceFactor:              1.5,
		ClusterSpawnChance:                    []float64{200, 15, 25, 21, 8, 2},
		ClusterMinimumDistanceToOtherClusters: 700,
		ClusterSpawnRadius:                    300,
		ClusterUsePseudoRandom:                false,
		ClusterSpawnRoot:                      true,
	}
}

// DefaultExterior returns the open-world defaults.
func DefaultExterior() DomainSettings {
	return DomainSettings{
		Enabled:                               true,
		DistanceToExistingNpcMin:              500,
		DistanceToExistingNpcMax:              10000,
		DistanceToPlayerSpawn:                 -1,
		IgnoreExistingDeadNpc:                 true,
		VerticalDistanceWeight:                1.5,
		MinimumNumExistingNpcsNearby:          2,
		PreventionMethod:                      PreventionNever,
		PreventionDistanceFactor:              1.5,
		ClusterSpawnChance:                    []float64{400, 15, 25, 21, 8, 2},
		ClusterMinimumDistanceToOtherClusters: 1200,
		ClusterSpawnRadius:                    400,
		ClusterUsePseudoRandom:                false,
		ClusterSpawnRoot:                      true,
	}
}

// Validate reports settings that would make generation meaningless or unstable.
func (d DomainSettings) Validate() error {
	var errs []error
	if d.DistanceToExistingNpcMin < 0 {
		errs = append(errs, errors.New("distance_to_existing_npc_min must be >= 0"))
	}
	if d.DistanceToExistingNpcMax < d.DistanceToExistingNpcMin {
		errs = append(errs, errors.New("distance_to_existing_npc_max must be >= distance_to_existing_npc_min"))
	}
	if d.VerticalDistanceWeight < 0 {
		errs = append(errs, errors.New("vertical_distance_weight must be >= 0"))
	}
	if d.MinimumNumExistingNpcsNearby < 0 {
		errs = append(errs, errors.New("minimum_num_existing_npcs_nearby must be >= 0"))
	}
	if d.PreventionDistanceFactor < 0 {
		errs = append(errs, errors.New("prevention_distance_factor must be >= 0"))
	}
	if d.ClusterSpawnRadius < 0 || d.ClusterMinimumDistanceToOtherClusters < 0 {
		errs = append(errs, errors.New("cluster distances must be >= 0"))
	}
	if d.Enabled && len(d.ClusterSpawnChance) == 0 {
		errs = append(errs, errors.New("cluster_spawn_chance must not be empty"))
	}
	for i, w := range d.ClusterSpawnChance {
		if w < 0 {
			errs = append(errs, fmt.Errorf("cluster_spawn_chance[%d] is negative", i))
		}
	}
	return errors.Join(errs...)
}

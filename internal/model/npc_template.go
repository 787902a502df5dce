package model

import "fmt"

// FormID identifies a record in the loaded game data. Zero is the null reference.
type FormID uint32

// IsNull reports whether id is the null reference.
func (id FormID) IsNull() bool {
	return id == 0
}

// String formats id the way record editors show it.
func (id FormID) String() string {
	return fmt.Sprintf("%08X", uint32(id))
}

// TemplateKind tags the Template variant.
type TemplateKind uint8

const (
	// KindNpc is a concrete character record.
	KindNpc TemplateKind = iota + 1
	// KindLeveledList resolves to one of its entries at load time.
	KindLeveledList
)

func (k TemplateKind) String() string {
	switch k {
	case KindNpc:
		return "npc"
	case KindLeveledList:
		return "leveled_list"
	default:
		return "unknown"
	}
}

// NpcFlag is the character configuration bitset.
type NpcFlag uint32

const (
	NpcFlagFemale NpcFlag = 1 << iota
	NpcFlagEssential
	NpcFlagIsChargenPreset
	NpcFlagRespawn
	NpcFlagAutoCalcStats
	NpcFlagUnique
)

// Has reports whether all bits of f are set.
func (n NpcFlag) Has(f NpcFlag) bool {
	return n&f == f
}

// TemplateFlag selects which parts of a character are inherited from its template.
type TemplateFlag uint16

const (
	TemplateUseTraits TemplateFlag = 1 << iota
	TemplateUseStats
	TemplateUseFactions
	TemplateUseSpellList
	TemplateUseAIData
	TemplateUseAIPackages
	TemplateUseBaseData
	TemplateUseInventory
	TemplateUseScript
	TemplateUseDefPackList
	TemplateUseAttackData
	TemplateUseKeywords
)

// Has reports whether all bits of f are set.
func (t TemplateFlag) Has(f TemplateFlag) bool {
	return t&f == f
}

// Contains reports whether t is a superset of other.
func (t TemplateFlag) Contains(other TemplateFlag) bool {
	return t&other == other
}

// Template is either a concrete character (KindNpc) or a leveled list (KindLeveledList).
// Fields not belonging to the active kind are zero.
type Template struct {
	ID   FormID
	Kind TemplateKind

	// KindNpc
	Template      FormID // inherited template, may be null
	Flags         NpcFlag
	TemplateFlags TemplateFlag
	Factions      []FormID

	// KindLeveledList
	Entries []FormID
}

// NewNpc creates a concrete character template.
func NewNpc(id, template FormID, flags NpcFlag, templateFlags TemplateFlag, factions ...FormID) *Template {
	return &Template{
		ID:            id,
		Kind:          KindNpc,
		Template:      template,
		Flags:         flags,
		TemplateFlags: templateFlags,
		Factions:      factions,
	}
}

// NewLeveledList creates a leveled list template.
func NewLeveledList(id FormID, entries ...FormID) *Template {
	return &Template{
		ID:      id,
		Kind:    KindLeveledList,
		Entries: entries,
	}
}

// IsLeveledList reports whether t is a leveled list.
func (t *Template) IsLeveledList() bool {
	return t.Kind == KindLeveledList
}

// FirstEntry returns the entry at index 0 of a leveled list.
// Only the first entry takes part in resolution.
func (t *Template) FirstEntry() (FormID, bool) {
	if t.Kind != KindLeveledList || len(t.Entries) == 0 || t.Entries[0].IsNull() {
		return 0, false
	}
	return t.Entries[0], true
}

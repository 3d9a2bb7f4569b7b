package game

// ElementType is a species' element. It shares values with PassageType on
// purpose: terrain and elements come from the same table.
type ElementType string

const (
	TypeNormal ElementType = "normal"
	TypeWater  ElementType = "water"
	TypeFire   ElementType = "fire"
	TypeGrass  ElementType = "grass"
)

// Species is a static catalog entry. Never mutated at runtime.
type Species struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     ElementType `json:"type"`
	Movement int         `json:"movement"`
}

// DefaultMovement is used when a piece references an unknown species. A live
// session must not crash on one bad reference, so lookups degrade instead.
const DefaultMovement = 2

var speciesCatalog = map[string]Species{
	"snorlax":   {ID: "snorlax", Name: "Snorlax", Type: TypeNormal, Movement: 1},
	"venusaur":  {ID: "venusaur", Name: "Venusaur", Type: TypeGrass, Movement: 1},
	"blastoise": {ID: "blastoise", Name: "Blastoise", Type: TypeWater, Movement: 2},
	"charizard": {ID: "charizard", Name: "Charizard", Type: TypeFire, Movement: 3},
}

// FlagGuardSpecies starts on its owner's flag spot; BenchSpecies start off
// the board.
var (
	FlagGuardSpecies = "snorlax"
	BenchSpecies     = []string{"venusaur", "blastoise", "charizard"}
)

// SpeciesByID looks up a catalog entry.
func SpeciesByID(id string) (Species, bool) {
	s, ok := speciesCatalog[id]
	return s, ok
}

// MovementOf returns the movement range for a species id, falling back to
// DefaultMovement for unknown ids.
func MovementOf(speciesID string) int {
	if s, ok := speciesCatalog[speciesID]; ok {
		return s.Movement
	}
	return DefaultMovement
}

// TypeOf returns the element type for a species id, falling back to normal.
func TypeOf(speciesID string) ElementType {
	if s, ok := speciesCatalog[speciesID]; ok {
		return s.Type
	}
	return TypeNormal
}

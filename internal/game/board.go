package game

import (
	"encoding/json"
	"fmt"
)

// SpotType tags the metadata variant of a spot.
type SpotType string

const (
	SpotNormal SpotType = "normal"
	SpotEntry  SpotType = "entry"
	SpotFlag   SpotType = "flag"
)

// SpotMetadata is the tagged variant attached to each spot. PlayerID is only
// meaningful for entry and flag spots.
type SpotMetadata struct {
	Type     SpotType `json:"type"`
	PlayerID int      `json:"playerId,omitempty"`
}

// Spot is a node in the board graph. Immutable after load.
type Spot struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Metadata SpotMetadata `json:"metadata"`
}

// PassageType is the terrain of a passage. Cosmetic in the current ruleset:
// every passage costs one movement point regardless of terrain.
type PassageType string

const (
	PassageNormal PassageType = "normal"
	PassageWater  PassageType = "water"
	PassageFire   PassageType = "fire"
	PassageGrass  PassageType = "grass"
)

// Passage is an undirected edge between two spots.
type Passage struct {
	ID          string      `json:"id"`
	FromSpotID  string      `json:"fromSpotId"`
	ToSpotID    string      `json:"toSpotId"`
	PassageType PassageType `json:"passageType"`
}

// Board is the static board graph. Build one with NewBoard or LoadBoard;
// the adjacency index is derived once and never mutated afterwards.
type Board struct {
	Spots    []Spot    `json:"spots"`
	Passages []Passage `json:"passages"`

	spotsByID map[string]Spot
	adjacency map[string][]string
}

// NewBoard validates the spot/passage lists and builds the adjacency index.
// A board that references unknown spots never loads partially.
func NewBoard(spots []Spot, passages []Passage) (*Board, error) {
	b := &Board{
		Spots:     spots,
		Passages:  passages,
		spotsByID: make(map[string]Spot, len(spots)),
		adjacency: make(map[string][]string, len(spots)),
	}

	for _, s := range spots {
		if s.ID == "" {
			return nil, fmt.Errorf("board: spot with empty id")
		}
		if _, dup := b.spotsByID[s.ID]; dup {
			return nil, fmt.Errorf("board: duplicate spot id %q", s.ID)
		}
		switch s.Metadata.Type {
		case SpotNormal:
		case SpotEntry, SpotFlag:
			if s.Metadata.PlayerID < 1 {
				return nil, fmt.Errorf("board: spot %q is %s but has no player id", s.ID, s.Metadata.Type)
			}
		default:
			return nil, fmt.Errorf("board: spot %q has unknown type %q", s.ID, s.Metadata.Type)
		}
		b.spotsByID[s.ID] = s
	}

	for _, p := range passages {
		if _, ok := b.spotsByID[p.FromSpotID]; !ok {
			return nil, fmt.Errorf("board: passage %q references unknown spot %q", p.ID, p.FromSpotID)
		}
		if _, ok := b.spotsByID[p.ToSpotID]; !ok {
			return nil, fmt.Errorf("board: passage %q references unknown spot %q", p.ID, p.ToSpotID)
		}
		// Undirected: index both directions.
		b.adjacency[p.FromSpotID] = append(b.adjacency[p.FromSpotID], p.ToSpotID)
		b.adjacency[p.ToSpotID] = append(b.adjacency[p.ToSpotID], p.FromSpotID)
	}

	return b, nil
}

// LoadBoard parses a board JSON document ({spots, passages}) produced by the
// board-authoring tool.
func LoadBoard(data []byte) (*Board, error) {
	var doc struct {
		Spots    []Spot    `json:"spots"`
		Passages []Passage `json:"passages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("board: parse: %w", err)
	}
	if len(doc.Spots) == 0 {
		return nil, fmt.Errorf("board: no spots")
	}
	return NewBoard(doc.Spots, doc.Passages)
}

// Spot looks up a spot by id.
func (b *Board) Spot(id string) (Spot, bool) {
	s, ok := b.spotsByID[id]
	return s, ok
}

// Neighbors returns the spots directly connected to the given spot.
func (b *Board) Neighbors(spotID string) []string {
	return b.adjacency[spotID]
}

// FlagSpot returns the flag spot belonging to the given player.
func (b *Board) FlagSpot(playerID int) (Spot, bool) {
	for _, s := range b.Spots {
		if s.Metadata.Type == SpotFlag && s.Metadata.PlayerID == playerID {
			return s, true
		}
	}
	return Spot{}, false
}

// EntrySpots returns every entry spot belonging to the given player.
func (b *Board) EntrySpots(playerID int) []Spot {
	var entries []Spot
	for _, s := range b.Spots {
		if s.Metadata.Type == SpotEntry && s.Metadata.PlayerID == playerID {
			entries = append(entries, s)
		}
	}
	return entries
}

// IsFlagSpot reports whether the given spot id is any player's flag.
func (b *Board) IsFlagSpot(spotID string) bool {
	s, ok := b.spotsByID[spotID]
	return ok && s.Metadata.Type == SpotFlag
}

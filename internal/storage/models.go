package storage

import (
	"time"

	"github.com/google/uuid"
)

// Match is one game played in a room, from board setup to win or abandon.
type Match struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomCode       string    `gorm:"index"`
	Status         string    // "playing", "completed", "abandoned"
	WinnerPlayerID *int
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Moves          []MatchMove
}

// MatchMove is one committed move, with its battle outcome inlined when the
// move resolved a fight.
type MatchMove struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MatchID      uuid.UUID `gorm:"type:uuid;index"`
	Number       int
	PlayerID     int
	PieceID      string
	TargetSpotID string
	Won          bool

	// Battle fields; zero ids mean the move was uncontested.
	AttackerPieceID string
	DefenderPieceID string
	AttackerRoll    int
	DefenderRoll    int
	AttackerBonus   int
	DefenderBonus   int
	WinnerPieceID   string

	CreatedAt time.Time
}

package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pokeduel/internal/game"
)

// Store wraps a gorm DB and provides helpers for persisting match history.
// A nil *Store is valid and turns every method into a no-op, so the server
// runs fine without a database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// StartMatch inserts a match row when a room's game begins.
func (s *Store) StartMatch(ctx context.Context, id uuid.UUID, roomCode string) error {
	if s == nil {
		return nil
	}
	match := Match{ID: id, RoomCode: roomCode, Status: "playing"}
	return s.db.WithContext(ctx).Create(&match).Error
}

// RecordMove inserts a move row, including battle details when present.
func (s *Store) RecordMove(ctx context.Context, matchID uuid.UUID, number, playerID int, pieceID, targetSpotID string, battle *game.BattleResult, won bool) error {
	if s == nil {
		return nil
	}
	move := MatchMove{
		MatchID:      matchID,
		Number:       number,
		PlayerID:     playerID,
		PieceID:      pieceID,
		TargetSpotID: targetSpotID,
		Won:          won,
	}
	if battle != nil {
		move.AttackerPieceID = battle.AttackerID
		move.DefenderPieceID = battle.DefenderID
		move.AttackerRoll = battle.AttackerRoll
		move.DefenderRoll = battle.DefenderRoll
		move.AttackerBonus = battle.AttackerBonus
		move.DefenderBonus = battle.DefenderBonus
		move.WinnerPieceID = battle.WinnerID
	}
	return s.db.WithContext(ctx).Create(&move).Error
}

// CompleteMatch marks a match as won.
func (s *Store) CompleteMatch(ctx context.Context, id uuid.UUID, winnerPlayerID int, completedAt time.Time) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&Match{}).Where("id = ?", id).Updates(map[string]any{
		"status":           "completed",
		"winner_player_id": winnerPlayerID,
		"completed_at":     completedAt,
	}).Error
}

// AbandonMatch marks a match as abandoned (room emptied mid-game).
func (s *Store) AbandonMatch(ctx context.Context, id uuid.UUID, when time.Time) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&Match{}).Where("id = ? AND status = ?", id, "playing").Updates(map[string]any{
		"status":       "abandoned",
		"completed_at": when,
	}).Error
}

// Stats are aggregate match counts for the stats endpoint.
type Stats struct {
	Started   int64 `json:"started"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
}

// FetchStats aggregates match counts.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&Match{}).Count(&stats.Started).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Match{}).Where("status = ?", "playing").Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Match{}).Where("status = ?", "completed").Count(&stats.Completed).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

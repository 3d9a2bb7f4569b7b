package types

import "pokeduel/internal/game"

// Client -> server intents.
const (
	MsgCreateRoom  = "CreateRoom"
	MsgJoinRoom    = "JoinRoom"
	MsgLeaveRoom   = "LeaveRoom"
	MsgSelectPiece = "SelectPokemon"
	MsgMovePiece   = "MovePokemon"
)

// Server -> client events.
const (
	EvtRoomJoined       = "RoomJoined"
	EvtPlayerJoined     = "PlayerJoined"
	EvtGameStarted      = "GameStarted"
	EvtGameStateUpdated = "GameStateUpdated"
	EvtMoveMade         = "MoveMade"
	EvtGameEnded        = "GameEnded"
	EvtPlayerLeft       = "PlayerLeft"
	EvtError            = "Error"
)

type ClientMessage struct {
	Type         string `json:"type"`
	RoomCode     string `json:"roomCode,omitempty"`
	PieceID      string `json:"pokemonId,omitempty"`
	TargetSpotID string `json:"targetSpotId,omitempty"`
}

// RoomInfo describes a room's occupancy for lobby-level events.
type RoomInfo struct {
	RoomID      string   `json:"roomId"`
	PlayerCount int      `json:"playerCount"`
	Players     []string `json:"players"`
	State       string   `json:"state"` // "waiting" | "playing" | "ended"
}

// MovePayload mirrors the session's move result plus the state it produced.
type MovePayload struct {
	Success   bool               `json:"success"`
	Battle    *game.BattleResult `json:"battle,omitempty"`
	Won       bool               `json:"won,omitempty"`
	GameState *game.State        `json:"gameState"`
}

type ServerMessage struct {
	Type             string       `json:"type"`
	RoomID           string       `json:"roomId,omitempty"`
	Room             *RoomInfo    `json:"room,omitempty"`
	AssignedPlayerID int          `json:"assignedPlayerId,omitempty"`
	State            *game.State  `json:"state,omitempty"`
	Move             *MovePayload `json:"move,omitempty"`
	Error            string       `json:"error,omitempty"`
}

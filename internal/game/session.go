package game

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrGameNotStarted = errors.New("game not started")
	ErrGameEnded      = errors.New("game already ended")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNotYourPiece   = errors.New("not your piece")
	ErrNotSelected    = errors.New("piece not selected")
	ErrIllegalTarget  = errors.New("illegal move target")
)

// Phase is the session lifecycle phase. There is no way back from ended.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Piece is one player-owned token. A nil SpotID means the piece is on the
// bench. Pieces are created at session setup and never deleted; a defeated
// piece goes back to the bench.
type Piece struct {
	ID        string  `json:"id"`
	SpeciesID string  `json:"speciesId"`
	PlayerID  int     `json:"playerId"`
	SpotID    *string `json:"spotId"`
}

// OnBoard reports whether the piece currently occupies a spot.
func (p Piece) OnBoard() bool { return p.SpotID != nil }

// State is a full snapshot of a session, safe to hand to other goroutines
// and to serialize for clients.
type State struct {
	CurrentPlayerID  int           `json:"currentPlayerId"`
	PlayerCount      int           `json:"playerCount"`
	SelectedPieceID  *string       `json:"selectedPokemonId"`
	ValidMoveTargets []string      `json:"validMoveTargets"`
	Phase            Phase         `json:"phase"`
	WinnerID         *int          `json:"winnerId"`
	LastBattle       *BattleResult `json:"lastBattle"`
	Spots            []Spot        `json:"spots"`
	Passages         []Passage     `json:"passages"`
	Pieces           []Piece       `json:"pokemon"`
}

// MoveResult is the outcome of a committed move.
type MoveResult struct {
	Success bool          `json:"success"`
	Battle  *BattleResult `json:"battle,omitempty"`
	Won     bool          `json:"won,omitempty"`
}

// Session is one game's authoritative state. It has no locking of its own:
// the owner (a room actor, or a local caller) must serialize access. Every
// operation either commits fully or leaves the state untouched and returns
// a sentinel error.
type Session struct {
	board           *Board
	playerCount     int
	currentPlayerID int
	phase           Phase
	winnerID        int // 0 until someone wins
	selectedPieceID string
	validTargets    []string
	lastBattle      *BattleResult
	pieces          []Piece
}

// NewSession returns a session in the setup phase; call Initialize to start
// playing.
func NewSession() *Session {
	return &Session{phase: PhaseSetup, currentPlayerID: 1, playerCount: 2}
}

// Initialize installs the board, places each player's starting roster and
// moves the session to the playing phase. Each player gets the flag-guard
// species on their flag spot and the remaining catalog species on the bench.
func (s *Session) Initialize(board *Board, playerCount int) {
	s.board = board
	s.playerCount = playerCount
	s.currentPlayerID = 1
	s.phase = PhasePlaying
	s.winnerID = 0
	s.lastBattle = nil
	s.clearSelection()
	s.placeStartingPieces()
}

func (s *Session) placeStartingPieces() {
	s.pieces = nil
	for playerID := 1; playerID <= s.playerCount; playerID++ {
		guard := Piece{ID: uuid.NewString(), SpeciesID: FlagGuardSpecies, PlayerID: playerID}
		if flag, ok := s.board.FlagSpot(playerID); ok {
			spotID := flag.ID
			guard.SpotID = &spotID
		}
		s.pieces = append(s.pieces, guard)

		for _, speciesID := range BenchSpecies {
			s.pieces = append(s.pieces, Piece{ID: uuid.NewString(), SpeciesID: speciesID, PlayerID: playerID})
		}
	}
}

// SelectPiece records a selection and computes its valid move targets. An
// empty pieceID clears the selection. A selection out of turn, after the
// game ended, or of an opponent's piece is rejected without touching state.
func (s *Session) SelectPiece(playerID int, pieceID string) error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if playerID != s.currentPlayerID {
		return ErrNotYourTurn
	}

	if pieceID == "" {
		s.clearSelection()
		s.lastBattle = nil
		return nil
	}

	piece, ok := s.pieceByID(pieceID)
	if !ok || piece.PlayerID != playerID {
		return ErrNotYourPiece
	}

	own, enemy := s.occupancy(playerID)
	movement := MovementOf(piece.SpeciesID)

	var targets []string
	if piece.OnBoard() {
		targets = ReachableSpots(s.board, *piece.SpotID, movement, own, enemy)
	} else {
		targets = ReachableFromBench(s.board, playerID, movement, own, enemy)
	}

	s.lastBattle = nil
	s.selectedPieceID = pieceID
	s.validTargets = targets
	return nil
}

// MovePiece commits the selected piece's move to targetSpotID, resolving a
// battle when an enemy holds the target. On a win the session ends without
// advancing the turn; otherwise the turn passes to the next player. The last
// battle result survives the turn boundary for display and is cleared by the
// next selection.
func (s *Session) MovePiece(playerID int, pieceID, targetSpotID string) (MoveResult, error) {
	if err := s.checkPlaying(); err != nil {
		return MoveResult{}, err
	}
	if playerID != s.currentPlayerID {
		return MoveResult{}, ErrNotYourTurn
	}
	piece, ok := s.pieceByID(pieceID)
	if !ok || piece.PlayerID != playerID {
		return MoveResult{}, ErrNotYourPiece
	}
	if s.selectedPieceID != pieceID {
		return MoveResult{}, ErrNotSelected
	}
	if !s.isValidTarget(targetSpotID) {
		return MoveResult{}, ErrIllegalTarget
	}

	result := MoveResult{Success: true}

	if defender, found := s.enemyAt(playerID, targetSpotID); found {
		battle := ResolveBattle(piece, defender, s.board.IsFlagSpot(targetSpotID))
		s.lastBattle = &battle
		result.Battle = &battle

		if battle.WinnerID == piece.ID {
			s.setPieceSpot(defender.ID, nil)
			s.setPieceSpot(piece.ID, &targetSpotID)
		} else {
			// A winning defender stays put; the attacker goes to the bench.
			s.setPieceSpot(piece.ID, nil)
		}
	} else {
		s.setPieceSpot(piece.ID, &targetSpotID)
	}

	if moved, ok := s.pieceByID(pieceID); ok && moved.OnBoard() && s.isOpponentFlag(playerID, *moved.SpotID) {
		s.phase = PhaseEnded
		s.winnerID = playerID
		s.clearSelection()
		result.Won = true
		return result, nil
	}

	s.clearSelection()
	s.advanceTurn()
	return result, nil
}

// EndTurn forfeits the rest of the current player's turn.
func (s *Session) EndTurn() {
	if s.phase != PhasePlaying {
		return
	}
	s.clearSelection()
	s.advanceTurn()
}

// ClearSelection drops the current selection and its targets.
func (s *Session) ClearSelection() { s.clearSelection() }

// ClearBattle drops the retained last-battle result.
func (s *Session) ClearBattle() { s.lastBattle = nil }

// Reset starts a rematch on the same board: fresh roster, turn back to
// player 1, playing phase.
func (s *Session) Reset() {
	if s.board == nil {
		return
	}
	s.currentPlayerID = 1
	s.phase = PhasePlaying
	s.winnerID = 0
	s.lastBattle = nil
	s.clearSelection()
	s.placeStartingPieces()
}

// State returns a snapshot with copied slices; mutating it never touches the
// session.
func (s *Session) State() State {
	st := State{
		CurrentPlayerID:  s.currentPlayerID,
		PlayerCount:      s.playerCount,
		ValidMoveTargets: append([]string(nil), s.validTargets...),
		Phase:            s.phase,
		LastBattle:       s.lastBattle,
		Pieces:           append([]Piece(nil), s.pieces...),
	}
	if st.ValidMoveTargets == nil {
		st.ValidMoveTargets = []string{}
	}
	if s.selectedPieceID != "" {
		id := s.selectedPieceID
		st.SelectedPieceID = &id
	}
	if s.winnerID != 0 {
		winner := s.winnerID
		st.WinnerID = &winner
	}
	if s.board != nil {
		st.Spots = append([]Spot(nil), s.board.Spots...)
		st.Passages = append([]Passage(nil), s.board.Passages...)
	}
	return st
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// CurrentPlayer returns whose turn it is.
func (s *Session) CurrentPlayer() int { return s.currentPlayerID }

// Winner returns the winning player id, or 0 while the game is running.
func (s *Session) Winner() int { return s.winnerID }

func (s *Session) checkPlaying() error {
	switch s.phase {
	case PhaseSetup:
		return ErrGameNotStarted
	case PhaseEnded:
		return ErrGameEnded
	}
	return nil
}

func (s *Session) clearSelection() {
	s.selectedPieceID = ""
	s.validTargets = nil
}

func (s *Session) advanceTurn() {
	s.currentPlayerID = s.currentPlayerID%s.playerCount + 1
}

func (s *Session) pieceByID(id string) (Piece, bool) {
	for _, p := range s.pieces {
		if p.ID == id {
			return p, true
		}
	}
	return Piece{}, false
}

func (s *Session) setPieceSpot(pieceID string, spotID *string) {
	for i := range s.pieces {
		if s.pieces[i].ID == pieceID {
			s.pieces[i].SpotID = spotID
			return
		}
	}
}

func (s *Session) enemyAt(playerID int, spotID string) (Piece, bool) {
	for _, p := range s.pieces {
		if p.OnBoard() && *p.SpotID == spotID && p.PlayerID != playerID {
			return p, true
		}
	}
	return Piece{}, false
}

func (s *Session) occupancy(playerID int) (own, enemy Occupancy) {
	own, enemy = Occupancy{}, Occupancy{}
	for _, p := range s.pieces {
		if !p.OnBoard() {
			continue
		}
		if p.PlayerID == playerID {
			own[*p.SpotID] = true
		} else {
			enemy[*p.SpotID] = true
		}
	}
	return own, enemy
}

func (s *Session) isValidTarget(spotID string) bool {
	for _, id := range s.validTargets {
		if id == spotID {
			return true
		}
	}
	return false
}

func (s *Session) isOpponentFlag(playerID int, spotID string) bool {
	spot, ok := s.board.Spot(spotID)
	return ok && spot.Metadata.Type == SpotFlag && spot.Metadata.PlayerID != playerID
}

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// corridorBoard is flag1 - mid - flag2, the smallest board a whole game
// fits on.
func corridorBoard(t *testing.T) *Board {
	t.Helper()
	return testBoard(t,
		[][2]string{{"flag1", "mid"}, {"mid", "flag2"}},
		map[string]SpotMetadata{
			"flag1": {Type: SpotFlag, PlayerID: 1},
			"flag2": {Type: SpotFlag, PlayerID: 2},
		},
	)
}

func startedSession(t *testing.T, b *Board) *Session {
	t.Helper()
	s := NewSession()
	s.Initialize(b, 2)
	return s
}

// findPiece returns a player's piece of the given species.
func findPiece(t *testing.T, s *Session, playerID int, speciesID string) Piece {
	t.Helper()
	for _, p := range s.State().Pieces {
		if p.PlayerID == playerID && p.SpeciesID == speciesID {
			return p
		}
	}
	t.Fatalf("no %s for player %d", speciesID, playerID)
	return Piece{}
}

func TestSession_Initialize(t *testing.T) {
	s := startedSession(t, corridorBoard(t))

	require.Equal(t, PhasePlaying, s.Phase())
	require.Equal(t, 1, s.CurrentPlayer())
	require.Equal(t, 0, s.Winner())

	st := s.State()
	require.Len(t, st.Pieces, 8, "four species per player")
	require.Nil(t, st.SelectedPieceID)
	require.Empty(t, st.ValidMoveTargets)
	require.Nil(t, st.LastBattle)

	for playerID, flagID := range map[int]string{1: "flag1", 2: "flag2"} {
		guard := findPiece(t, s, playerID, FlagGuardSpecies)
		require.NotNil(t, guard.SpotID)
		require.Equal(t, flagID, *guard.SpotID)
	}
	for _, speciesID := range BenchSpecies {
		require.False(t, findPiece(t, s, 1, speciesID).OnBoard())
		require.False(t, findPiece(t, s, 2, speciesID).OnBoard())
	}
}

func TestSession_RejectsBeforeInitialize(t *testing.T) {
	s := NewSession()

	require.ErrorIs(t, s.SelectPiece(1, "whatever"), ErrGameNotStarted)
	_, err := s.MovePiece(1, "whatever", "mid")
	require.ErrorIs(t, err, ErrGameNotStarted)
}

func TestSession_SelectPiece(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))

	st := s.State()
	require.NotNil(t, st.SelectedPieceID)
	require.Equal(t, guard.ID, *st.SelectedPieceID)
	require.ElementsMatch(t, []string{"mid"}, st.ValidMoveTargets, "snorlax moves one spot")
}

func TestSession_SelectRejections(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	p1Guard := findPiece(t, s, 1, "snorlax")
	p2Guard := findPiece(t, s, 2, "snorlax")

	require.NoError(t, s.SelectPiece(1, p1Guard.ID))

	t.Run("out of turn leaves state untouched", func(t *testing.T) {
		require.ErrorIs(t, s.SelectPiece(2, p2Guard.ID), ErrNotYourTurn)
		st := s.State()
		require.Equal(t, p1Guard.ID, *st.SelectedPieceID)
		require.ElementsMatch(t, []string{"mid"}, st.ValidMoveTargets)
	})

	t.Run("enemy piece is rejected", func(t *testing.T) {
		require.ErrorIs(t, s.SelectPiece(1, p2Guard.ID), ErrNotYourPiece)
	})

	t.Run("unknown piece is rejected", func(t *testing.T) {
		require.ErrorIs(t, s.SelectPiece(1, "nope"), ErrNotYourPiece)
	})

	t.Run("empty id clears the selection", func(t *testing.T) {
		require.NoError(t, s.SelectPiece(1, ""))
		st := s.State()
		require.Nil(t, st.SelectedPieceID)
		require.Empty(t, st.ValidMoveTargets)
	})
}

func TestSession_MoveAdvancesTurn(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))
	result, err := s.MovePiece(1, guard.ID, "mid")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Nil(t, result.Battle)
	require.False(t, result.Won)

	require.Equal(t, 2, s.CurrentPlayer())
	st := s.State()
	require.Nil(t, st.SelectedPieceID)
	require.Empty(t, st.ValidMoveTargets)

	moved := findPiece(t, s, 1, "snorlax")
	require.NotNil(t, moved.SpotID)
	require.Equal(t, "mid", *moved.SpotID)

	// Forfeiting the second player's turn cycles back to player 1.
	s.EndTurn()
	require.Equal(t, 1, s.CurrentPlayer())
}

func TestSession_MoveRejections(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")
	enemy := findPiece(t, s, 2, "snorlax")

	before := s.State()

	t.Run("without selection", func(t *testing.T) {
		_, err := s.MovePiece(1, guard.ID, "mid")
		require.ErrorIs(t, err, ErrNotSelected)
	})

	require.NoError(t, s.SelectPiece(1, guard.ID))

	t.Run("out of turn", func(t *testing.T) {
		_, err := s.MovePiece(2, enemy.ID, "mid")
		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("enemy piece", func(t *testing.T) {
		_, err := s.MovePiece(1, enemy.ID, "mid")
		require.ErrorIs(t, err, ErrNotYourPiece)
	})

	t.Run("illegal target", func(t *testing.T) {
		_, err := s.MovePiece(1, guard.ID, "flag2")
		require.ErrorIs(t, err, ErrIllegalTarget)
	})

	// No rejection moved a piece, flipped the turn or ended the game.
	after := s.State()
	require.Equal(t, before.CurrentPlayerID, after.CurrentPlayerID)
	require.Equal(t, before.Phase, after.Phase)
	require.ElementsMatch(t, before.Pieces, after.Pieces)
}

func TestSession_BattleAttackerWinsAndCapturesFlag(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))
	_, err := s.MovePiece(1, guard.ID, "mid")
	require.NoError(t, err)
	s.EndTurn() // player 2 passes

	// Attacker rolls 6, defender 1. The defending snorlax holds the flag
	// for +1: 6 vs 2, attacker takes the spot and the game.
	stubRolls(t, 6, 1)

	require.NoError(t, s.SelectPiece(1, guard.ID))
	require.Contains(t, s.State().ValidMoveTargets, "flag2", "enemy flag is an attack target")

	result, err := s.MovePiece(1, guard.ID, "flag2")
	require.NoError(t, err)
	require.True(t, result.Won)
	require.NotNil(t, result.Battle)
	require.Equal(t, guard.ID, result.Battle.WinnerID)
	require.Equal(t, 1, result.Battle.DefenderBonus)

	require.Equal(t, PhaseEnded, s.Phase())
	require.Equal(t, 1, s.Winner())
	require.Equal(t, 1, s.CurrentPlayer(), "a winning move does not pass the turn")

	loser := findPiece(t, s, 2, "snorlax")
	require.False(t, loser.OnBoard(), "defeated piece returns to the bench")

	t.Run("no further play after the win", func(t *testing.T) {
		require.ErrorIs(t, s.SelectPiece(2, findPiece(t, s, 2, "charizard").ID), ErrGameEnded)
		_, err := s.MovePiece(1, guard.ID, "mid")
		require.ErrorIs(t, err, ErrGameEnded)
		s.EndTurn()
		require.Equal(t, 1, s.CurrentPlayer())
	})
}

func TestSession_BattleDefenderHolds(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))
	_, err := s.MovePiece(1, guard.ID, "mid")
	require.NoError(t, err)
	s.EndTurn()

	stubRolls(t, 1, 6)

	require.NoError(t, s.SelectPiece(1, guard.ID))
	result, err := s.MovePiece(1, guard.ID, "flag2")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.False(t, result.Won)
	require.Equal(t, result.Battle.DefenderID, result.Battle.WinnerID)

	attacker := findPiece(t, s, 1, "snorlax")
	require.False(t, attacker.OnBoard(), "losing attacker goes to the bench")

	defender := findPiece(t, s, 2, "snorlax")
	require.NotNil(t, defender.SpotID)
	require.Equal(t, "flag2", *defender.SpotID, "winning defender stays put")

	require.Equal(t, PhasePlaying, s.Phase())
	require.Equal(t, 2, s.CurrentPlayer())

	// The battle result survives the turn boundary for display and is
	// cleared by the next selection.
	require.NotNil(t, s.State().LastBattle)
	require.NoError(t, s.SelectPiece(2, findPiece(t, s, 2, "snorlax").ID))
	require.Nil(t, s.State().LastBattle)
}

func TestSession_BenchEntry(t *testing.T) {
	b := testBoard(t,
		[][2]string{{"flag1", "e1"}, {"e1", "mid"}, {"mid", "e2"}, {"e2", "flag2"}},
		map[string]SpotMetadata{
			"flag1": {Type: SpotFlag, PlayerID: 1},
			"flag2": {Type: SpotFlag, PlayerID: 2},
			"e1":    {Type: SpotEntry, PlayerID: 1},
			"e2":    {Type: SpotEntry, PlayerID: 2},
		},
	)
	s := startedSession(t, b)

	t.Run("charizard ranges three from the bench", func(t *testing.T) {
		charizard := findPiece(t, s, 1, "charizard")
		require.NoError(t, s.SelectPiece(1, charizard.ID))
		require.ElementsMatch(t, []string{"e1", "mid", "e2"}, s.State().ValidMoveTargets)
	})

	t.Run("venusaur only reaches the entry", func(t *testing.T) {
		venusaur := findPiece(t, s, 1, "venusaur")
		require.NoError(t, s.SelectPiece(1, venusaur.ID))
		require.ElementsMatch(t, []string{"e1"}, s.State().ValidMoveTargets)
	})

	t.Run("entering the board places the piece", func(t *testing.T) {
		blastoise := findPiece(t, s, 1, "blastoise")
		require.NoError(t, s.SelectPiece(1, blastoise.ID))
		require.ElementsMatch(t, []string{"e1", "mid"}, s.State().ValidMoveTargets)

		result, err := s.MovePiece(1, blastoise.ID, "mid")
		require.NoError(t, err)
		require.True(t, result.Success)

		placed := findPiece(t, s, 1, "blastoise")
		require.NotNil(t, placed.SpotID)
		require.Equal(t, "mid", *placed.SpotID)
		require.Equal(t, 2, s.CurrentPlayer())
	})
}

func TestSession_Reset(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))
	_, err := s.MovePiece(1, guard.ID, "mid")
	require.NoError(t, err)

	s.Reset()

	require.Equal(t, PhasePlaying, s.Phase())
	require.Equal(t, 1, s.CurrentPlayer())
	require.Equal(t, 0, s.Winner())

	st := s.State()
	require.Len(t, st.Pieces, 8)
	require.Nil(t, st.SelectedPieceID)
	require.Nil(t, st.LastBattle)

	fresh := findPiece(t, s, 1, "snorlax")
	require.NotNil(t, fresh.SpotID)
	require.Equal(t, "flag1", *fresh.SpotID, "roster is re-placed for the rematch")
	require.NotEqual(t, guard.ID, fresh.ID, "rematch pieces are new instances")
}

func TestSession_ClearBattleAndSelection(t *testing.T) {
	s := startedSession(t, corridorBoard(t))
	guard := findPiece(t, s, 1, "snorlax")

	require.NoError(t, s.SelectPiece(1, guard.ID))
	s.ClearSelection()
	st := s.State()
	require.Nil(t, st.SelectedPieceID)
	require.Empty(t, st.ValidMoveTargets)

	s.ClearBattle()
	require.Nil(t, s.State().LastBattle)
}

package game

import "math/rand/v2"

// BattleResult records one resolved battle. Piece ids, not player ids.
type BattleResult struct {
	AttackerID    string `json:"attackerId"`
	DefenderID    string `json:"defenderId"`
	AttackerRoll  int    `json:"attackerRoll"`
	DefenderRoll  int    `json:"defenderRoll"`
	AttackerBonus int    `json:"attackerBonus"`
	DefenderBonus int    `json:"defenderBonus"`
	WinnerID      string `json:"winnerId"`
	LoserID       string `json:"loserId"`
}

// rollDie is swapped out by tests that need forced rolls.
var rollDie = func() int { return rand.IntN(6) + 1 }

// TypeAdvantageBonus returns 1 when the attacker's element beats the
// defender's: fire beats grass, grass beats water, water beats fire.
// Normal neither beats nor is beaten, and no element beats itself.
func TypeAdvantageBonus(attacker, defender ElementType) int {
	switch {
	case attacker == TypeFire && defender == TypeGrass:
		return 1
	case attacker == TypeGrass && defender == TypeWater:
		return 1
	case attacker == TypeWater && defender == TypeFire:
		return 1
	}
	return 0
}

// ResolveBattle rolls one die per side, applies type and terrain bonuses and
// picks a winner. Ties go to the defender: the attacker must strictly exceed
// the defender's total. A normal-type defender standing on a flag spot gets
// an extra +1.
func ResolveBattle(attacker, defender Piece, defenderOnFlagSpot bool) BattleResult {
	attackerType := TypeOf(attacker.SpeciesID)
	defenderType := TypeOf(defender.SpeciesID)

	attackerRoll := rollDie()
	defenderRoll := rollDie()

	attackerBonus := TypeAdvantageBonus(attackerType, defenderType)
	defenderBonus := TypeAdvantageBonus(defenderType, attackerType)
	if defenderOnFlagSpot && defenderType == TypeNormal {
		defenderBonus++
	}

	result := BattleResult{
		AttackerID:    attacker.ID,
		DefenderID:    defender.ID,
		AttackerRoll:  attackerRoll,
		DefenderRoll:  defenderRoll,
		AttackerBonus: attackerBonus,
		DefenderBonus: defenderBonus,
	}

	if attackerRoll+attackerBonus > defenderRoll+defenderBonus {
		result.WinnerID, result.LoserID = attacker.ID, defender.ID
	} else {
		result.WinnerID, result.LoserID = defender.ID, attacker.ID
	}
	return result
}

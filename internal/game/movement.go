package game

// Occupancy is the set of spot ids currently holding a piece.
type Occupancy map[string]bool

// ReachableSpots runs a breadth-first search from origin and returns every
// spot a piece with the given movement range may legally end its move on.
//
// Rules:
//   - the origin itself is never a result
//   - spots holding the mover's own pieces are excluded and block traversal
//   - spots holding enemy pieces are included (attack targets) but block
//     further traversal: combat halts movement
//   - every passage costs exactly one movement point
func ReachableSpots(b *Board, origin string, movement int, own, enemy Occupancy) []string {
	if movement <= 0 {
		return nil
	}

	type frontier struct {
		spotID   string
		distance int
	}

	var reachable []string
	visited := map[string]bool{origin: true}
	queue := []frontier{{spotID: origin, distance: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.distance > 0 && !own[cur.spotID] {
			reachable = append(reachable, cur.spotID)
		}

		// The origin is where the piece stands, so expansion always starts
		// there; beyond it, occupied spots are dead ends.
		blocked := enemy[cur.spotID] || (cur.distance > 0 && own[cur.spotID])
		if cur.distance >= movement || blocked {
			continue
		}

		for _, next := range b.Neighbors(cur.spotID) {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, frontier{spotID: next, distance: cur.distance + 1})
		}
	}

	return reachable
}

// ReachableFromEntry models a bench piece entering the board through one
// entry spot. Stepping onto the entry consumes one movement point; the usual
// rules apply to whatever budget remains. The entry spot itself is not part
// of the result (the caller decides whether landing on it is legal).
func ReachableFromEntry(b *Board, entrySpotID string, movement int, own, enemy Occupancy) []string {
	remaining := movement - 1
	if remaining <= 0 {
		return nil
	}
	if enemy[entrySpotID] {
		// Fighting on the entry spot consumes the whole move.
		return nil
	}
	return ReachableSpots(b, entrySpotID, remaining, own, enemy)
}

// ReachableFromBench returns the full valid-target set for a bench piece:
// the union over all of its owner's entry spots. An entry held by an own
// piece is unusable this turn; an entry held by an enemy is a legal attack
// target but nothing beyond it is reachable.
func ReachableFromBench(b *Board, playerID, movement int, own, enemy Occupancy) []string {
	if movement <= 0 {
		return nil
	}

	targets := map[string]bool{}
	for _, entry := range b.EntrySpots(playerID) {
		if own[entry.ID] {
			continue
		}
		targets[entry.ID] = true
		for _, id := range ReachableFromEntry(b, entry.ID, movement, own, enemy) {
			targets[id] = true
		}
	}

	out := make([]string, 0, len(targets))
	for id := range targets {
		out = append(out, id)
	}
	return out
}

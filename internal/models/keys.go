package models

// GamePlayerKey identifies one box score row: the (game, player) pair that
// the box_scores unique constraint is defined on.
type GamePlayerKey struct {
	GameID   int
	PlayerID int
}

// Key returns the identifying pair for a box score row
func (b *BoxScore) Key() GamePlayerKey {
	return GamePlayerKey{GameID: b.GameID, PlayerID: b.PlayerID}
}

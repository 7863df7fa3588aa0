package ingest

import "nbastats/ingestion/internal/models"

// Dedup tracks (game, player) pairs already handed to the loader during a
// run. It is the first of three duplicate defenses; the database existence
// check and the unique constraint back it up, so it may be reset at any time
// to bound memory.
type Dedup struct {
	seen map[models.GamePlayerKey]struct{}
}

// NewDedup creates an empty pair set
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[models.GamePlayerKey]struct{})}
}

// Seen reports whether the pair was already recorded
func (d *Dedup) Seen(key models.GamePlayerKey) bool {
	_, ok := d.seen[key]
	return ok
}

// Add records a pair
func (d *Dedup) Add(key models.GamePlayerKey) {
	d.seen[key] = struct{}{}
}

// Len returns the number of tracked pairs
func (d *Dedup) Len() int {
	return len(d.seen)
}

// Reset clears the set
func (d *Dedup) Reset() {
	d.seen = make(map[models.GamePlayerKey]struct{})
}

package engine

// Layout holds the immutable parameters of a game and its tournament.
type Layout struct {
	FieldSize        int     // side of the square field; n2 = FieldSize² must be a power of two
	CommsSize        int     // communication bits m; must divide n2
	EnemyProbability float64 // P(cell == 1)
	ChannelNoise     float64 // per-bit flip probability on the comm channel
	NumberOfGames    int     // games per tournament
}

// DefaultLayout returns a 4×4 field, one comm bit, p = 0.5, a noiseless
// channel and 100 games.
func DefaultLayout() Layout {
	return Layout{
		FieldSize:        4,
		CommsSize:        1,
		EnemyProbability: 0.5,
		ChannelNoise:     0.0,
		NumberOfGames:    100,
	}
}

// N2 returns the flattened field length.
func (l Layout) N2() int { return l.FieldSize * l.FieldSize }

// Validate reports the first constraint the layout violates.
func (l Layout) Validate() error {
	if l.FieldSize <= 0 {
		return configErrorf("layout", "field size %d, want > 0", l.FieldSize)
	}
	n2 := l.N2()
	if !isPowerOfTwo(n2) {
		return configErrorf("layout", "field size %d gives n2 = %d, not a power of two", l.FieldSize, n2)
	}
	if l.CommsSize <= 0 {
		return configErrorf("layout", "comms size %d, want > 0", l.CommsSize)
	}
	if n2%l.CommsSize != 0 {
		return configErrorf("layout", "comms size %d does not divide n2 = %d", l.CommsSize, n2)
	}
	if !(l.EnemyProbability >= 0 && l.EnemyProbability <= 1) {
		return configErrorf("layout", "enemy probability %v outside [0, 1]", l.EnemyProbability)
	}
	if !(l.ChannelNoise >= 0 && l.ChannelNoise <= 1) {
		return configErrorf("layout", "channel noise %v outside [0, 1]", l.ChannelNoise)
	}
	if l.NumberOfGames <= 0 {
		return configErrorf("layout", "number of games %d, want > 0", l.NumberOfGames)
	}
	return nil
}

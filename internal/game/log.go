// internal/game/log.go

package game

import (
	"math"

	"github.com/google/uuid"

	"github.com/robhendrik/qseabattle/engine"
)

// Row is one logged game.
type Row struct {
	TournamentID uuid.UUID
	GameID       int
	GameUID      uuid.UUID
	Field        engine.Bits
	Gun          engine.Bits
	Comm         engine.Bits
	Shoot        uint8
	CellValue    uint8
	Reward       float64
}

// Log collects the rows of a tournament in game order.
type Log struct {
	TournamentID uuid.UUID
	Rows         []Row
}

// NewLog returns an empty log with a fresh tournament id.
func NewLog() *Log {
	return &Log{TournamentID: uuid.New()}
}

// Append records r as the next game and returns its row.
func (l *Log) Append(r Result) Row {
	row := Row{
		TournamentID: l.TournamentID,
		GameID:       len(l.Rows),
		GameUID:      uuid.New(),
		Field:        r.Field,
		Gun:          r.Gun,
		Comm:         r.Comm,
		Shoot:        r.Shoot,
		CellValue:    r.CellValue,
		Reward:       r.Reward,
	}
	l.Rows = append(l.Rows, row)
	return row
}

// Len returns the number of logged games.
func (l *Log) Len() int { return len(l.Rows) }

// Outcome returns the mean reward and its standard error (sample standard
// deviation over sqrt(n)). An empty log gives 0, 0; a single game has no
// error estimate.
func (l *Log) Outcome() (mean, stdErr float64) {
	n := len(l.Rows)
	if n == 0 {
		return 0, 0
	}
	for _, r := range l.Rows {
		mean += r.Reward
	}
	mean /= float64(n)
	if n == 1 {
		return mean, 0
	}
	var ss float64
	for _, r := range l.Rows {
		d := r.Reward - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss/float64(n-1)) / math.Sqrt(float64(n))
}

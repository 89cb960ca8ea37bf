package sqlite

import (
	"log"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// Archive records every match_ended event. It implements domain.EventSink.
type Archive struct {
	db *DB
}

// NewArchive returns a sink writing into db.
func NewArchive(db *DB) *Archive {
	return &Archive{db: db}
}

// Publish stores finished matches and ignores every other event.
func (a *Archive) Publish(ev domain.GameEvent) {
	if ev.Type != domain.EventMatchEnded || ev.Match == nil {
		return
	}
	id, err := a.db.InsertMatch(*ev.Match)
	if err != nil {
		log.Printf("[archive] failed to store match: %v", err)
		return
	}
	log.Printf("[archive] match %d stored (%s won %.0f-%.0f)", id, ev.Match.Winner, ev.Match.Scores.TeamA, ev.Match.Scores.TeamB)
}

package file

import (
	"context"

	"github.com/brunoavln/goalscout/internal/domain/game"
)

type daySnapshot struct {
	Date  string      `json:"date"`
	Games []game.Game `json:"games"`
}

// SnapshotStore caches one day's computed fixtures. Save fully rewrites
// the file; there is never more than one day in it.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Load(_ context.Context) (string, []game.Game, error) {
	var snap daySnapshot
	found, err := readJSON(s.path, &snap)
	if err != nil || !found {
		return "", nil, err
	}
	return snap.Date, snap.Games, nil
}

func (s *SnapshotStore) Save(_ context.Context, date string, games []game.Game) error {
	return writeJSON(s.path, daySnapshot{Date: date, Games: games})
}

package file

import (
	"context"

	"github.com/brunoavln/goalscout/internal/domain/quota"
)

// QuotaStore persists the daily API counter as one small JSON file.
type QuotaStore struct {
	path string
}

func NewQuotaStore(path string) *QuotaStore {
	return &QuotaStore{path: path}
}

func (s *QuotaStore) Load(_ context.Context) (quota.State, error) {
	var state quota.State
	if _, err := readJSON(s.path, &state); err != nil {
		return quota.State{}, err
	}
	return state, nil
}

func (s *QuotaStore) Save(_ context.Context, state quota.State) error {
	return writeJSON(s.path, state)
}

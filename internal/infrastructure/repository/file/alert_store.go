package file

import (
	"context"
	"time"
)

// AlertStore is the durable set of already-alerted fixture identities.
// The file maps identity to the date it was recorded; entries older than
// the retention window are pruned on every save so the file cannot grow
// without bound.
type AlertStore struct {
	path          string
	retentionDays int
	now           func() time.Time
}

func NewAlertStore(path string, retentionDays int) *AlertStore {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &AlertStore{
		path:          path,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *AlertStore) Contains(_ context.Context, identity string) (bool, error) {
	entries, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := entries[identity]
	return ok, nil
}

func (s *AlertStore) Add(_ context.Context, identities []string) error {
	if len(identities) == 0 {
		return nil
	}

	entries, err := s.load()
	if err != nil {
		return err
	}

	today := s.now().Format("2006-01-02")
	for _, identity := range identities {
		entries[identity] = today
	}

	return writeJSON(s.path, s.prune(entries))
}

func (s *AlertStore) load() (map[string]string, error) {
	entries := map[string]string{}
	if _, err := readJSON(s.path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// prune drops entries recorded before the retention cutoff. Entries whose
// date does not parse are dropped too; they cannot age out otherwise.
func (s *AlertStore) prune(entries map[string]string) map[string]string {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays).Format("2006-01-02")
	out := make(map[string]string, len(entries))
	for identity, recorded := range entries {
		if len(recorded) != len("2006-01-02") || recorded < cutoff {
			continue
		}
		out[identity] = recorded
	}
	return out
}

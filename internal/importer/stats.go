package importer

// ImportStats counts the outcome of an import run.
type ImportStats struct {
	// Scanned is the number of drafts found on disk.
	Scanned int `json:"scanned"`
	// Imported is the number of drafts written to the store.
	Imported int `json:"imported"`
	// Skipped is the number of drafts unchanged since their last import.
	Skipped int `json:"skipped"`
	// Failed is the number of drafts that could not be imported.
	Failed int `json:"failed"`
}

func (s *ImportStats) record(imported bool, err error) {
	switch {
	case err != nil:
		s.Failed++
	case imported:
		s.Imported++
	default:
		s.Skipped++
	}
}

// LogAttrs returns the counts as slog key/value pairs.
func (s ImportStats) LogAttrs() []any {
	return []any{
		"scanned", s.Scanned,
		"imported", s.Imported,
		"skipped", s.Skipped,
		"failed", s.Failed,
	}
}

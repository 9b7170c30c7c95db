package history

// Entry is one completed analysis.
type Entry struct {
	ChatID    int64
	Kind      string // gps | promo | error | empty
	Promo     string
	Latitude  *float64
	Longitude *float64
	Address   string
}

// Record appends one entry to the analysis log.
func (d *DB) Record(e Entry) error {
	_, err := d.Exec(`
		INSERT INTO analyses (chat_id, kind, promo, latitude, longitude, address)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ChatID, e.Kind, nullStr(e.Promo), e.Latitude, e.Longitude, nullStr(e.Address),
	)
	return err
}

// Counts returns the number of logged analyses per kind.
func (d *DB) Counts() (map[string]int, error) {
	rows, err := d.Query(`SELECT kind, COUNT(*) FROM analyses GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Total returns how many analyses have been logged overall.
func (d *DB) Total() (int, error) {
	var n int
	err := d.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

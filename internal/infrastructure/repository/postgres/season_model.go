package postgres

import "time"

type seasonTableModel struct {
	ID            int64      `db:"id"`
	Name          string     `db:"name"`
	StartDate     *time.Time `db:"start_date"`
	Active        bool       `db:"active"`
	LastScrapedAt *time.Time `db:"last_scraped_at"`
}

type seasonUpsertModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	StartDate *time.Time `db:"start_date"`
	Active    bool       `db:"active"`
}

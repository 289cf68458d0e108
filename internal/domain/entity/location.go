package entity

import "time"

// Location representa un lugar físico donde se guardan items.
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

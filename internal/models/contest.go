// file: internal/models/contest.go
// version: 1.0.0
// guid: a776b671-61b2-4e33-9b8d-3b6e5d6a6b79

package models

import "time"

// Contest is a public exam process that owns one or more result lists.
type Contest struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Banca     string    `json:"banca" db:"banca"`
	Site      string    `json:"site" db:"site"`
	EditalURL string    `json:"edital_url" db:"edital_url"`
	Cargo     string    `json:"cargo" db:"cargo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContestPatch carries a partial contest update. Nil fields are left untouched.
type ContestPatch struct {
	Name      *string `json:"name,omitempty"`
	Banca     *string `json:"banca,omitempty"`
	Site      *string `json:"site,omitempty"`
	EditalURL *string `json:"edital_url,omitempty"`
	Cargo     *string `json:"cargo,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ContestPatch) IsEmpty() bool {
	return p.Name == nil && p.Banca == nil && p.Site == nil && p.EditalURL == nil && p.Cargo == nil
}

// Apply copies every set field onto c.
func (p ContestPatch) Apply(c *Contest) {
	if c == nil {
		return
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Banca != nil {
		c.Banca = *p.Banca
	}
	if p.Site != nil {
		c.Site = *p.Site
	}
	if p.EditalURL != nil {
		c.EditalURL = *p.EditalURL
	}
	if p.Cargo != nil {
		c.Cargo = *p.Cargo
	}
}

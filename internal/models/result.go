// file: internal/models/result.go
// version: 1.0.0
// guid: 1c60b78a-625d-4ffa-9f84-37792ccd130e

package models

import (
	"strings"
	"time"
)

// Category is a quota track within a contest.
type Category string

const (
	CategoryAmpla     Category = "Ampla"
	CategoryPPP       Category = "PPP"
	CategoryPCD       Category = "PCD"
	CategoryIndigenas Category = "Indígenas"
)

// Categories lists every accepted category in display order.
func Categories() []Category {
	return []Category{CategoryAmpla, CategoryPPP, CategoryPCD, CategoryIndigenas}
}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories() {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Result is one candidate row in a contest result list.
type Result struct {
	ID         int64        `json:"id" db:"id"`
	ContestID  int64        `json:"contest_id" db:"contest_id"`
	Category   Category     `json:"category" db:"category"`
	Position   int          `json:"position" db:"position"`
	Name       string       `json:"name" db:"name"`
	FinalScore float64      `json:"final_score" db:"final_score"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	Contest    *Contest     `json:"contest,omitempty"`
	Extra      *ResultExtra `json:"extra"`
}

// Situacao returns the call-up state of the result, or "" when there is none.
func (r Result) Situacao() string {
	if r.Extra == nil || r.Extra.Situacao == nil {
		return ""
	}
	return *r.Extra.Situacao
}

// ResultExtra is the status attachment of a Result. At most one exists per result.
type ResultExtra struct {
	ID              int64      `json:"id" db:"id"`
	ContestResultID int64      `json:"contest_result_id" db:"contest_result_id"`
	Situacao        *string    `json:"situacao" db:"situacao"`
	VaiAssumir      *string    `json:"vai_assumir" db:"vai_assumir"`
	OutrasListas    JSONObject `json:"outras_listas" db:"outras_listas"`
	Contatos        JSONObject `json:"contatos" db:"contatos"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at" db:"updated_at"`
}

// ExtraPatch is a partial status update. Only fields present in the
// payload are applied; an explicit null clears the stored value.
type ExtraPatch struct {
	Situacao     Optional[string]     `json:"situacao"`
	VaiAssumir   Optional[string]     `json:"vai_assumir"`
	OutrasListas Optional[JSONObject] `json:"outras_listas"`
	Contatos     Optional[JSONObject] `json:"contatos"`
}

// IsEmpty reports whether no field was provided.
func (p ExtraPatch) IsEmpty() bool {
	return !p.Situacao.Set && !p.VaiAssumir.Set && !p.OutrasListas.Set && !p.Contatos.Set
}

// Apply writes every provided field onto e.
func (p ExtraPatch) Apply(e *ResultExtra) {
	if e == nil {
		return
	}
	if p.Situacao.Set {
		e.Situacao = p.Situacao.Value
	}
	if p.VaiAssumir.Set {
		e.VaiAssumir = p.VaiAssumir.Value
	}
	if p.OutrasListas.Set {
		e.OutrasListas = p.OutrasListas.Deref()
	}
	if p.Contatos.Set {
		e.Contatos = p.Contatos.Deref()
	}
}

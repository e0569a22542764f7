// file: internal/importer/importer.go
// version: 1.0.0
// guid: 0e6c4a82-5d1f-4b37-9a8e-7f2b1c3d9e40

// Package importer loads classification lists from YAML files.
//
// A file looks like:
//
//	contest:
//	  name: TRF 1ª Região
//	  banca: Cebraspe
//	  site: https://example.org
//	  edital_url: https://example.org/edital.pdf
//	  cargo: Analista Judiciário
//	lists:
//	  - category: Ampla
//	    entries:
//	      - {name: Ana Souza, score: 91.5}
//
// Setting contest.id appends the lists to an existing contest instead.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrInvalidFile = errors.New("invalid import file")

type ContestSpec struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	Banca     string `yaml:"banca"`
	Site      string `yaml:"site"`
	EditalURL string `yaml:"edital_url"`
	Cargo     string `yaml:"cargo"`
}

type Entry struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
}

type List struct {
	Category string  `yaml:"category"`
	Entries  []Entry `yaml:"entries"`
}

// File is the decoded import document.
type File struct {
	Contest ContestSpec `yaml:"contest"`
	Lists   []List      `yaml:"lists"`
}

// Summary reports what Apply wrote.
type Summary struct {
	Contest  *models.Contest
	Created  bool
	Inserted map[models.Category]int
}

// Total returns the number of inserted results.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Inserted {
		n += c
	}
	return n
}

// Load reads and validates an import file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates an import document.
func Decode(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks the contest reference and every list.
func (f *File) Validate() error {
	if f.Contest.ID == 0 {
		c := f.Contest
		for field, v := range map[string]string{
			"name": c.Name, "banca": c.Banca, "site": c.Site, "edital_url": c.EditalURL, "cargo": c.Cargo,
		} {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: contest.%s is required", ErrInvalidFile, field)
			}
		}
	}
	if len(f.Lists) == 0 {
		return fmt.Errorf("%w: no lists", ErrInvalidFile)
	}
	for i, l := range f.Lists {
		if _, ok := models.ParseCategory(l.Category); !ok {
			return fmt.Errorf("%w: lists[%d]: unknown category %q", ErrInvalidFile, i, l.Category)
		}
		if len(l.Entries) == 0 {
			return fmt.Errorf("%w: lists[%d]: no entries", ErrInvalidFile, i)
		}
		for j, e := range l.Entries {
			if strings.TrimSpace(e.Name) == "" {
				return fmt.Errorf("%w: lists[%d].entries[%d]: blank name", ErrInvalidFile, i, j)
			}
		}
	}
	return nil
}

// EntryCount returns the number of entries across all lists.
func (f *File) EntryCount() int {
	n := 0
	for _, l := range f.Lists {
		n += len(l.Entries)
	}
	return n
}

// Apply writes the file to store. progress, when not nil, is called after
// each list with the number of entries just inserted.
func Apply(store database.Store, f *File, progress func(n int)) (*Summary, error) {
	summary := &Summary{Inserted: map[models.Category]int{}}

	if f.Contest.ID != 0 {
		contest, err := store.GetContestByID(f.Contest.ID)
		if err != nil {
			return nil, err
		}
		if contest == nil {
			return nil, fmt.Errorf("contest %d: %w", f.Contest.ID, database.ErrNotFound)
		}
		summary.Contest = contest
	} else {
		c := f.Contest
		contest, err := store.CreateContest(&models.Contest{
			Name:      strings.TrimSpace(c.Name),
			Banca:     strings.TrimSpace(c.Banca),
			Site:      strings.TrimSpace(c.Site),
			EditalURL: strings.TrimSpace(c.EditalURL),
			Cargo:     strings.TrimSpace(c.Cargo),
		})
		if err != nil {
			return nil, err
		}
		summary.Contest = contest
		summary.Created = true
	}

	for _, l := range f.Lists {
		category, _ := models.ParseCategory(l.Category)
		names := make([]string, len(l.Entries))
		scores := make([]float64, len(l.Entries))
		for i, e := range l.Entries {
			names[i] = e.Name
			scores[i] = e.Score
		}
		created, err := store.CreateResults(summary.Contest.ID, category, names, scores)
		if err != nil {
			return summary, fmt.Errorf("failed to import %s list: %w", category, err)
		}
		summary.Inserted[category] += len(created)
		if progress != nil {
			progress(len(created))
		}
	}
	return summary, nil
}

package inmemdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
)

type ebookRepository struct {
	db *ebookTable
}

var _ ebook.Repository = (*ebookRepository)(nil) // interface compliance check

func NewEbookRepository(db *DB) *ebookRepository {
	return &ebookRepository{db: db.ebook}
}

func (repo *ebookRepository) query() []ebook.Ebook {
	ebooks := make([]ebook.Ebook, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		ebooks = append(ebooks, *e)
	}
	return ebooks
}

func (repo *ebookRepository) CreateEbook(_ context.Context, e ebook.Ebook) (ebook.Ebook, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[e.ID]; ok {
		return ebook.Ebook{}, core.NewShutdownError(fmt.Sprintf("integrity issue: ebook %s already exists", e.ID))
	}
	for _, other := range repo.db.table {
		if strings.EqualFold(other.AuthorName, e.AuthorName) && strings.EqualFold(other.Title, e.Title) {
			return ebook.Ebook{}, ebook.ErrDuplicateTitle
		}
	}
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *ebookRepository) GetEbookByID(_ context.Context, id string) (ebook.Ebook, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return ebook.Ebook{}, ebook.ErrNotFound
}

func (repo *ebookRepository) QueryEbooks(_ context.Context, filter *ebook.QueryFilter, ordering ...core.DBOrdering) ([]ebook.Ebook, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ebooks := make([]ebook.Ebook, 0)
	for _, e := range repo.query() {
		if matches(e, filter) {
			ebooks = append(ebooks, e)
		}
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "createdAt"}} // newest first
	}
	sort.SliceStable(ebooks, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compare(ebooks[i], ebooks[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return ebooks[i].ID < ebooks[j].ID
	})
	return ebooks, nil
}

func (repo *ebookRepository) QueryTitlesByAuthor(_ context.Context, author string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	titles := make([]string, 0)
	for _, e := range repo.query() {
		if strings.EqualFold(e.AuthorName, author) {
			titles = append(titles, e.Title)
		}
	}
	return titles, nil
}

func (repo *ebookRepository) DeleteEbooksByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func matches(e ebook.Ebook, filter *ebook.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(e.Title), search) && !strings.Contains(strings.ToLower(e.Description), search) {
			return false
		}
	}
	if len(filter.Areas) > 0 {
		var found bool
		for _, a := range filter.Areas {
			if string(e.AcademicArea) == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Author != "" && !strings.Contains(strings.ToLower(e.AuthorName), strings.ToLower(filter.Author)) {
		return false
	}
	if filter.Free != nil && e.IsFree() != *filter.Free {
		return false
	}
	return true
}

// compare returns -1, 0 or 1; unknown fields compare equal.
func compare(a, b ebook.Ebook, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "authorName":
		return strings.Compare(a.AuthorName, b.AuthorName)
	case "academicArea":
		return strings.Compare(string(a.AcademicArea), string(b.AcademicArea))
	case "price":
		return compareInts(a.Price, b.Price)
	case "pageCount":
		return compareInts(a.PageCount, b.PageCount)
	case "createdAt":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

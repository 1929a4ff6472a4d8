package inmemdb

import (
	"sync"

	"github.com/trezcool/duka/core/ebook"
)

type (
	DB struct {
		ebook *ebookTable
	}

	ebookTable struct {
		table map[string]*ebook.Ebook
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		ebook: &ebookTable{table: make(map[string]*ebook.Ebook)},
	}
}

// Reset drops every row.
func (db *DB) Reset() {
	db.ebook.mutex.Lock()
	defer db.ebook.mutex.Unlock()
	db.ebook.table = make(map[string]*ebook.Ebook)
}

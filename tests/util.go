package testutil

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
	logsvc "github.com/trezcool/duka/services/logger"
	"github.com/trezcool/duka/storage/database"
)

// PrepareDB returns a migrated, empty postgres database.
// The test is skipped unless TEST_POSTGRES is set; connection settings come from TEST_DATABASE_* variables.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("TEST_POSTGRES") == "" {
		t.Skip("TEST_POSTGRES not set")
	}

	conf := NewConfig()
	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	if _, err = db.Exec("TRUNCATE TABLE ebook"); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	return db
}

// NewConfig returns the TEST configuration (in-memory storage, test mode).
func NewConfig() *core.Config {
	if err := os.Setenv("ENV", "TEST"); err != nil {
		log.Fatalf("NewConfig(): %v", err)
	}
	return core.NewConfig()
}

// NewLogger returns a logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewValidator() *ebook.Validator {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return ebook.NewValidator(validate, translator)
}

// ValidSubmission returns a submission that passes every check.
func ValidSubmission() ebook.Submission {
	return ebook.Submission{
		Title:        "Cálculo Avançado",
		Description:  "Um guia completo sobre limites e derivadas.",
		AcademicArea: ebook.AreaExactSciences,
		AuthorName:   "Ana Lima",
		Price:        2990,
		PageCount:    150,
		FileURL:      "doc.pdf",
	}
}

// ValidRaw is ValidSubmission as a decoded JSON body.
func ValidRaw() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Cálculo Avançado",
		"description":  "Um guia completo sobre limites e derivadas.",
		"academicArea": "EXACT_SCIENCES",
		"authorName":   "Ana Lima",
		"price":        float64(2990),
		"pageCount":    float64(150),
		"fileUrl":      "doc.pdf",
	}
}

func CreateEbook(
	t *testing.T,
	repo ebook.Repository,
	id, title, author string,
	area ebook.AcademicArea,
	price int,
	submittedBy string,
	createdAt ...time.Time,
) ebook.Ebook {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sub := ValidSubmission()
	book := ebook.Ebook{
		ID:           id,
		Title:        title,
		Description:  sub.Description,
		AcademicArea: area,
		AuthorName:   author,
		Price:        price,
		PageCount:    50,
		FileURL:      sub.FileURL,
		SubmittedBy:  submittedBy,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	}
	book, err := repo.CreateEbook(context.Background(), book)
	if err != nil {
		t.Fatalf("CreateEbook() failed: %v", err)
	}
	return book
}

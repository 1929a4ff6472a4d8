package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
)

const (
	uniqueViolation  = "23505"
	authorTitleIndex = "ebook_author_title_key"
)

const ebookColumns = `id, title, description, academic_area, author_name, price, page_count,
	file_url, cover_url, submitted_by, created_at, updated_at`

type ebookRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  string      `db:"description"`
	AcademicArea string      `db:"academic_area"`
	AuthorName   string      `db:"author_name"`
	Price        int         `db:"price"`
	PageCount    int         `db:"page_count"`
	FileURL      string      `db:"file_url"`
	CoverURL     null.String `db:"cover_url"`
	SubmittedBy  string      `db:"submitted_by"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

type ebookRepository struct {
	db *sqlx.DB
}

var _ ebook.Repository = (*ebookRepository)(nil) // interface compliance check

func NewEbookRepository(db *sql.DB) *ebookRepository {
	return &ebookRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo ebookRepository) toRow(e ebook.Ebook) ebookRow {
	return ebookRow{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		AcademicArea: string(e.AcademicArea),
		AuthorName:   e.AuthorName,
		Price:        e.Price,
		PageCount:    e.PageCount,
		FileURL:      e.FileURL,
		CoverURL:     null.NewString(e.CoverURL, e.CoverURL != ""),
		SubmittedBy:  e.SubmittedBy,
		CreatedAt:    e.CreatedAt.UTC(),
		UpdatedAt:    e.UpdatedAt.UTC(),
	}
}

func (repo ebookRepository) fromRow(row ebookRow) ebook.Ebook {
	return ebook.Ebook{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		AcademicArea: ebook.AcademicArea(row.AcademicArea),
		AuthorName:   row.AuthorName,
		Price:        row.Price,
		PageCount:    row.PageCount,
		FileURL:      row.FileURL,
		CoverURL:     row.CoverURL.String,
		SubmittedBy:  row.SubmittedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

// trapNoRowsErr maps psql "no rows" err to ebook.ErrNotFound
func (repo ebookRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return ebook.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo ebookRepository) CreateEbook(ctx context.Context, e ebook.Ebook) (ebook.Ebook, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	q := `INSERT INTO ebook (` + ebookColumns + `) VALUES (
		:id, :title, :description, :academic_area, :author_name, :price, :page_count,
		:file_url, :cover_url, :submitted_by, :created_at, :updated_at)`
	row := repo.toRow(e)
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation && pqErr.Constraint == authorTitleIndex {
			return ebook.Ebook{}, ebook.ErrDuplicateTitle
		}
		return ebook.Ebook{}, errors.Wrap(err, "inserting ebook")
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return ebook.Ebook{}, core.NewShutdownError(fmt.Sprintf("integrity issue: inserting ebook %s affected %d rows", e.ID, n))
	}
	return repo.fromRow(row), nil
}

func (repo ebookRepository) GetEbookByID(ctx context.Context, id string) (ebook.Ebook, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ebook.Ebook{}, ebook.ErrNotFound
	}
	var row ebookRow
	q := `SELECT ` + ebookColumns + ` FROM ebook WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return ebook.Ebook{}, repo.trapNoRowsErr(err, "finding ebook by ID")
	}
	return repo.fromRow(row), nil
}

func (repo ebookRepository) QueryEbooks(ctx context.Context, filter *ebook.QueryFilter, ordering ...core.DBOrdering) ([]ebook.Ebook, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter != nil {
		// ebooks with Title or Description matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			where = append(where, "(title ILIKE ? OR description ILIKE ?)")
			args = append(args, val, val)
		}
		if len(filter.Areas) > 0 {
			where = append(where, "academic_area IN (?)")
			args = append(args, filter.Areas)
		}
		if filter.Author != "" {
			where = append(where, "author_name ILIKE ?")
			args = append(args, "%"+filter.Author+"%")
		}
		if filter.Free != nil {
			if *filter.Free {
				where = append(where, "price = 0")
			} else {
				where = append(where, "price > 0")
			}
		}
	}

	q := `SELECT ` + ebookColumns + ` FROM ebook`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	orderList := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		// only whitelisted columns reach the query
		if col, ok := ebook.OrderingColumn(ord.Field); ok {
			orderList = append(orderList, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(orderList) == 0 {
		orderList = append(orderList, "created_at DESC")
	}
	q += " ORDER BY " + strings.Join(orderList, ", ") + ", id ASC"

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building ebooks query")
	}

	var rows []ebookRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying ebooks")
	}
	ebooks := make([]ebook.Ebook, 0, len(rows))
	for _, row := range rows {
		ebooks = append(ebooks, repo.fromRow(row))
	}
	return ebooks, nil
}

func (repo ebookRepository) QueryTitlesByAuthor(ctx context.Context, author string) ([]string, error) {
	titles := make([]string, 0)
	q := `SELECT title FROM ebook WHERE LOWER(author_name) = LOWER($1)`
	if err := repo.db.SelectContext(ctx, &titles, q, author); err != nil {
		return nil, errors.Wrap(err, "querying titles by author")
	}
	return titles, nil
}

func (repo ebookRepository) DeleteEbooksByID(ctx context.Context, ids ...string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	q, args, err := sqlx.In(`DELETE FROM ebook WHERE id IN (?)`, valid)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting ebooks")
	}
	return nil
}

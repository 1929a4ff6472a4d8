package ebook

import (
	"fmt"
	"time"

	"github.com/trezcool/duka/core"
)

// Submission contains the information a collaborator provides to publish an e-book.
// Price is expressed in cents.
type Submission struct {
	Title        string       `json:"title" yaml:"title" validate:"tmin=3,tmax=200"`
	Description  string       `json:"description" yaml:"description" validate:"tmin=10,tmax=5000"`
	AcademicArea AcademicArea `json:"academicArea" yaml:"academicArea" validate:"notblank"`
	AuthorName   string       `json:"authorName" yaml:"authorName" validate:"tmin=2,tmax=100"`
	Price        int          `json:"price" yaml:"price" validate:"min=0,max=2147483647"`
	PageCount    int          `json:"pageCount" yaml:"pageCount" validate:"min=1,max=2000"`
	FileURL      string       `json:"fileUrl" yaml:"fileUrl" validate:"notblank"`
	CoverURL     string       `json:"coverUrl,omitempty" yaml:"coverUrl,omitempty"`
}

// Ebook is an accepted Submission.
type Ebook struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	AcademicArea AcademicArea `json:"academicArea"`
	AuthorName   string       `json:"authorName"`
	Price        int          `json:"price"`
	PageCount    int          `json:"pageCount"`
	FileURL      string       `json:"fileUrl"`
	CoverURL     string       `json:"coverUrl,omitempty"`
	SubmittedBy  string       `json:"submittedBy"`
	CreatedAt    time.Time    `json:"createdAt"` // UTC
	UpdatedAt    time.Time    `json:"updatedAt"` // UTC
}

func (e Ebook) IsFree() bool { return e.Price == 0 }

// PriceDisplay formats the price in major units, e.g. 2990 -> "29.90".
func (e Ebook) PriceDisplay() string {
	if e.IsFree() {
		return "free"
	}
	return fmt.Sprintf("%d.%02d", e.Price/100, e.Price%100)
}

type QueryFilter struct {
	Search string   `query:"search"`
	Areas  []string `query:"area"`
	Author string   `query:"author"`
	Free   *bool    `query:"free"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Areas == nil && qf.Author == "" && qf.Free == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Author = core.CleanString(qf.Author)
	areas := make([]string, 0, len(qf.Areas))
	for _, a := range qf.Areas {
		if a = string(NormalizeAcademicArea(AcademicArea(a))); a != "" {
			areas = append(areas, a)
		}
	}
	if len(areas) == 0 {
		areas = nil
	}
	qf.Areas = areas
}

// orderingColumns maps the orderable JSON field names to their DB column.
var orderingColumns = map[string]string{
	"title":        "title",
	"authorName":   "author_name",
	"academicArea": "academic_area",
	"price":        "price",
	"pageCount":    "page_count",
	"createdAt":    "created_at",
}

// OrderingColumn returns the DB column backing the orderable field, if any.
func OrderingColumn(field string) (string, bool) {
	col, ok := orderingColumns[field]
	return col, ok
}

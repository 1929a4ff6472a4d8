package ebook

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/trezcool/duka/core"
)

// DecodeSubmission checks that every field of a loosely-typed record (usually a decoded JSON body)
// is present and has the expected primitive type, and builds a Submission out of it.
// Bounds are checked later by Validator.CheckSchema.
func DecodeSubmission(raw map[string]interface{}) (Submission, error) {
	var (
		sub  Submission
		area string
		err  error
	)
	if sub.Title, err = requiredString(raw, "title"); err != nil {
		return Submission{}, err
	}
	if sub.Description, err = requiredString(raw, "description"); err != nil {
		return Submission{}, err
	}
	if area, err = requiredString(raw, "academicArea"); err != nil {
		return Submission{}, err
	}
	sub.AcademicArea = AcademicArea(area)
	if sub.AuthorName, err = requiredString(raw, "authorName"); err != nil {
		return Submission{}, err
	}
	if sub.Price, err = requiredInt(raw, "price"); err != nil {
		return Submission{}, err
	}
	if sub.PageCount, err = requiredInt(raw, "pageCount"); err != nil {
		return Submission{}, err
	}
	if sub.FileURL, err = requiredString(raw, "fileUrl"); err != nil {
		return Submission{}, err
	}
	if sub.CoverURL, err = optionalString(raw, "coverUrl"); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func requiredString(raw map[string]interface{}, field string) (string, error) {
	val, ok := raw[field]
	if !ok || val == nil {
		return "", core.NewFieldError(field, field+" is required")
	}
	s, ok := val.(string)
	if !ok {
		return "", core.NewFieldError(field, field+" must be a string")
	}
	return s, nil
}

func optionalString(raw map[string]interface{}, field string) (string, error) {
	if val, ok := raw[field]; !ok || val == nil {
		return "", nil
	}
	return requiredString(raw, field)
}

func requiredInt(raw map[string]interface{}, field string) (int, error) {
	val, ok := raw[field]
	if !ok || val == nil {
		return 0, core.NewFieldError(field, field+" is required")
	}
	notInt := core.NewFieldError(field, field+" must be an integer")

	var f float64
	switch n := val.(type) {
	case int:
		return int32Bounded(field, int64(n))
	case int64:
		return int32Bounded(field, n)
	case uint64:
		if n > math.MaxInt32 {
			return 0, outOfRange(field, true)
		}
		return int(n), nil
	case float64:
		f = n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int32Bounded(field, i)
		}
		var err error
		if f, err = n.Float64(); err != nil && !math.IsInf(f, 0) {
			return 0, notInt
		}
	default:
		return 0, core.NewFieldError(field, fmt.Sprintf("%s must be a number", field))
	}

	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, notInt
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, outOfRange(field, f > 0)
	}
	return int(f), nil
}

// int32Bounded keeps integers within what the ebook table can store.
func int32Bounded(field string, n int64) (int, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, outOfRange(field, n > 0)
	}
	return int(n), nil
}

func outOfRange(field string, tooLarge bool) error {
	if tooLarge {
		return core.NewFieldError(field, field+" is too large")
	}
	return core.NewFieldError(field, field+" is too small")
}

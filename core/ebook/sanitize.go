package ebook

import "github.com/trezcool/duka/core"

// Sanitize returns a copy of sub with every string trimmed and the academic area normalized.
func Sanitize(sub Submission) Submission {
	return Submission{
		Title:        core.CleanString(sub.Title),
		Description:  core.CleanString(sub.Description),
		AcademicArea: NormalizeAcademicArea(sub.AcademicArea),
		AuthorName:   core.CleanString(sub.AuthorName),
		Price:        sub.Price,
		PageCount:    sub.PageCount,
		FileURL:      core.CleanString(sub.FileURL),
		CoverURL:     core.CleanString(sub.CoverURL),
	}
}

package ebook

import (
	"regexp"
	"strings"

	"github.com/trezcool/duka/core"
)

const (
	titleMinWords   = 2
	titleMaxRepeats = 5

	freeMaxPages = 100
	paidMinPages = 10
)

var (
	placeholderTitleRegex = regexp.MustCompile(`(?i)^(test|sample|example)$`)

	errTitleSpam     = "title looks like spam or placeholder content"
	errTitleWords    = "title must contain at least 2 words"
	errFreeTooLong   = "free ebooks should not exceed 100 pages"
	errPaidTooShort  = "paid ebooks should have at least 10 pages"
	errAcademicArea  = "academicArea must be one of: " + joinAreas(AcademicAreas)
	errFileExtension = "fileUrl must end with one of: " + joinExtensions(DocumentExtensions)
	errCoverExt      = "coverUrl must end with one of: " + joinExtensions(ImageExtensions)
)

// CheckTitleQuality rejects placeholder titles, titles with a character repeated 5+ times in a row,
// and single-word titles.
func CheckTitleQuality(title string) error {
	title = strings.TrimSpace(title)
	if placeholderTitleRegex.MatchString(title) || hasRepeatedRun(title, titleMaxRepeats) {
		return core.NewFieldError("title", errTitleSpam)
	}
	if len(strings.Fields(title)) < titleMinWords {
		return core.NewFieldError("title", errTitleWords)
	}
	return nil
}

// hasRepeatedRun reports whether s contains n or more consecutive identical runes.
func hasRepeatedRun(s string, n int) bool {
	var (
		prev  rune
		count int
	)
	for i, r := range s {
		if i > 0 && r == prev {
			count++
		} else {
			count = 1
		}
		if count >= n {
			return true
		}
		prev = r
	}
	return false
}

func CheckAcademicArea(area AcademicArea) error {
	if !area.IsValid() {
		return core.NewFieldError("academicArea", errAcademicArea)
	}
	return nil
}

func CheckFileExtension(url string) error {
	if !hasExtension(url, DocumentExtensions) {
		return core.NewFieldError("fileUrl", errFileExtension)
	}
	return nil
}

// CheckCoverExtension is a no-op when no cover is provided.
func CheckCoverExtension(url string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	if !hasExtension(url, ImageExtensions) {
		return core.NewFieldError("coverUrl", errCoverExt)
	}
	return nil
}

// CheckPricePageConsistency caps free e-books at 100 pages and requires paid ones to have at least 10.
func CheckPricePageConsistency(price, pageCount int) error {
	if price == 0 && pageCount > freeMaxPages {
		return core.NewFieldError("pageCount", errFreeTooLong)
	}
	if price > 0 && pageCount < paidMinPages {
		return core.NewFieldError("pageCount", errPaidTooShort)
	}
	return nil
}

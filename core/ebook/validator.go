package ebook

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/duka/core"
)

type checker func(Submission) error

// Validator runs the submission pipeline. It is safe for concurrent use.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	pipeline   []checker
}

// NewValidator expects `validate` to have been set up with core.InitValidators.
func NewValidator(validate *validator.Validate, translator ut.Translator) *Validator {
	v := &Validator{validate: validate, translator: translator}
	v.pipeline = []checker{
		v.CheckSchema,
		func(s Submission) error { return CheckTitleQuality(s.Title) },
		func(s Submission) error { return CheckAcademicArea(s.AcademicArea) },
		func(s Submission) error { return CheckFileExtension(s.FileURL) },
		func(s Submission) error { return CheckCoverExtension(s.CoverURL) },
		func(s Submission) error { return CheckPricePageConsistency(s.Price, s.PageCount) },
	}
	return v
}

// CheckSchema applies the length and range bounds declared on Submission.
func (v *Validator) CheckSchema(sub Submission) error {
	if err := v.validate.Struct(sub); err != nil {
		return core.FirstValidationError(err, v.translator)
	}
	return nil
}

// Validate runs every check in order and returns the first *core.ValidationError, if any.
// It does not normalize sub: use Submit for data coming from the outside.
func (v *Validator) Validate(sub Submission) error {
	for _, check := range v.pipeline {
		if err := check(sub); err != nil {
			return err
		}
	}
	return nil
}

// Submit sanitizes sub and validates the result, which is returned on success.
func (v *Validator) Submit(sub Submission) (Submission, error) {
	clean := Sanitize(sub)
	if err := v.Validate(clean); err != nil {
		return Submission{}, err
	}
	return clean, nil
}

// SubmitRaw decodes a loosely-typed record then behaves like Submit.
func (v *Validator) SubmitRaw(raw map[string]interface{}) (Submission, error) {
	sub, err := DecodeSubmission(raw)
	if err != nil {
		return Submission{}, err
	}
	return v.Submit(sub)
}

package ebook

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/duka/core"
)

var (
	// errors
	ErrNotFound = errors.New("ebook not found")
	// ErrDuplicateTitle is also returned by repositories when the same author stores the same title twice.
	ErrDuplicateTitle = core.NewFieldError("title", "an ebook with a similar title was already submitted by this author")
)

type (
	Repository interface {
		CreateEbook(ctx context.Context, ebook Ebook) (Ebook, error)
		GetEbookByID(ctx context.Context, id string) (Ebook, error)
		// QueryEbooks applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Ebook.Title or Ebook.Description.
		QueryEbooks(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Ebook, error)
		// QueryTitlesByAuthor does a case-insensitive match on Ebook.AuthorName.
		QueryTitlesByAuthor(ctx context.Context, author string) ([]string, error)
		DeleteEbooksByID(ctx context.Context, ids ...string) error
	}

	// Recorder records pipeline outcomes.
	Recorder interface {
		Accepted(area AcademicArea)
		Rejected(field string)
	}

	ServiceInterface interface {
		Validator() *Validator
		Create(ctx context.Context, actor core.Actor, sub Submission) (Ebook, error)
		CreateRaw(ctx context.Context, actor core.Actor, raw map[string]interface{}) (Ebook, error)
		GetByID(ctx context.Context, id string) (Ebook, error)
		Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Ebook, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo      Repository
		validator *Validator
		mailSvc   core.EmailService
		logger    core.Logger
		recorder  Recorder
		conf      *core.Config
	}

	// ServiceDeps holds the collaborators of Service.
	ServiceDeps struct {
		Conf      *core.Config
		Repo      Repository
		Validator *Validator
		MailSvc   core.EmailService
		Logger    core.Logger
		Recorder  Recorder
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(deps ServiceDeps) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Conf, "Conf"),
		vala.IsNotNil(deps.Repo, "Repo"),
		vala.IsNotNil(deps.Validator, "Validator"),
		vala.IsNotNil(deps.MailSvc, "MailSvc"),
		vala.IsNotNil(deps.Logger, "Logger"),
	).CheckAndPanic()

	recorder := deps.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Service{
		repo:      deps.Repo,
		validator: deps.Validator,
		mailSvc:   deps.MailSvc,
		logger:    deps.Logger,
		recorder:  recorder,
		conf:      deps.Conf,
	}
}

func (svc *Service) Validator() *Validator { return svc.validator }

// CreateRaw decodes a loosely-typed record then behaves like Create.
func (svc *Service) CreateRaw(ctx context.Context, actor core.Actor, raw map[string]interface{}) (Ebook, error) {
	sub, err := DecodeSubmission(raw)
	if err != nil {
		svc.reject(err)
		return Ebook{}, err
	}
	return svc.Create(ctx, actor, sub)
}

// Create runs sub through the pipeline, rejects near-duplicates, stores the result and notifies the editorial team.
func (svc *Service) Create(ctx context.Context, actor core.Actor, sub Submission) (Ebook, error) {
	clean, err := svc.validator.Submit(sub)
	if err != nil {
		svc.reject(err)
		return Ebook{}, err
	}
	if err = svc.checkDuplicate(ctx, clean); err != nil {
		if _, ok := core.AsValidationError(err); ok {
			svc.reject(err)
		}
		return Ebook{}, err
	}

	now := time.Now().UTC()
	ebook, err := svc.repo.CreateEbook(ctx, Ebook{
		ID:           uuid.NewString(),
		Title:        clean.Title,
		Description:  clean.Description,
		AcademicArea: clean.AcademicArea,
		AuthorName:   clean.AuthorName,
		Price:        clean.Price,
		PageCount:    clean.PageCount,
		FileURL:      clean.FileURL,
		CoverURL:     clean.CoverURL,
		SubmittedBy:  actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if _, ok := core.AsValidationError(err); ok {
			svc.reject(err)
		}
		return Ebook{}, errors.Wrap(err, "creating ebook")
	}

	svc.recorder.Accepted(ebook.AcademicArea)
	svc.logger.Info(fmt.Sprintf("ebook %s submitted: %q", ebook.ID, ebook.Title), actor)
	svc.notifyEditorial(ebook)
	return ebook, nil
}

// checkDuplicate rejects titles too similar to one already submitted by the same author.
func (svc *Service) checkDuplicate(ctx context.Context, sub Submission) error {
	titles, err := svc.repo.QueryTitlesByAuthor(ctx, sub.AuthorName)
	if err != nil {
		return errors.Wrap(err, "querying titles by author")
	}
	for _, title := range titles {
		if titleSimilarity(sub.Title, title) >= svc.conf.DuplicateTitleRatio {
			return ErrDuplicateTitle
		}
	}
	return nil
}

func titleSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func (svc *Service) reject(err error) {
	field := "unknown"
	if vErr, ok := core.AsValidationError(err); ok && vErr.Field() != "" {
		field = vErr.Field()
	}
	svc.recorder.Rejected(field)
}

func (svc *Service) notifyEditorial(ebook Ebook) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.conf.EditorialEmail()},
		Subject:      "New e-book submission: " + ebook.Title,
		TemplateName: "ebook_submitted",
		TemplateData: ebook,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Ebook, error) {
	return svc.repo.GetEbookByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Ebook, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	filter.Clean()
	return svc.repo.QueryEbooks(ctx, filter, ordering...)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEbooksByID(ctx, ids...)
}

// NopRecorder discards every outcome.
type NopRecorder struct{}

func (NopRecorder) Accepted(AcademicArea) {}
func (NopRecorder) Rejected(string)       {}

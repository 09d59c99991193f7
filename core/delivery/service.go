package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

type (
	// Request is a validated delivery order.
	Request struct {
		StudentID   string
		MaterialIDs []string
		Channel     Channel
		Contact     string
	}

	Result struct {
		Outcome   Outcome
		Materials []material.Summary
	}

	Service struct {
		students   student.Reader
		materials  material.Reader
		issuer     core.LinkIssuer
		dispatcher *Dispatcher
		audit      Appender
		conf       *core.Config
		log        core.Logger
	}
)

func NewService(
	students student.Reader,
	materials material.Reader,
	issuer core.LinkIssuer,
	dispatcher *Dispatcher,
	audit Appender,
	conf *core.Config,
	log core.Logger,
) *Service {
	return &Service{
		students:   students,
		materials:  materials,
		issuer:     issuer,
		dispatcher: dispatcher,
		audit:      audit,
		conf:       conf,
		log:        log,
	}
}

// Deliver resolves the student and requested materials, issues fresh
// time-limited download URLs, invokes exactly one provider adapter for the
// requested channel and records an audit entry (best-effort).
//
// Materials missing from the store are dropped; delivery proceeds as long as
// at least one resolves. Two identical requests run fully and independently:
// no idempotency key, no dedup.
func (svc *Service) Deliver(ctx context.Context, req Request) (Result, error) {
	std, err := svc.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return Result{}, err
	}

	mats, err := svc.materials.GetByIDs(ctx, req.MaterialIDs)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching materials")
	}
	if len(mats) == 0 {
		return Result{}, material.ErrNoneFound
	}

	resolved := svc.resolve(ctx, mats)

	out := svc.dispatcher.Dispatch(ctx, req.Channel, std, resolved, req.Contact)

	svc.logDelivery(ctx, req, out)

	return Result{Outcome: out, Materials: material.Summaries(mats)}, nil
}

// resolve attaches a freshly issued download URL to each material. A failed
// issuance leaves that material's URL empty; it never fails the delivery.
func (svc *Service) resolve(ctx context.Context, mats []material.Material) []material.Resolved {
	refs := make([]string, 0, len(mats))
	for _, m := range mats {
		refs = append(refs, m.FilePath)
	}
	urls := core.BatchIssueURLs(ctx, svc.issuer, refs, svc.conf.LinkExpiry, svc.log)

	resolved := make([]material.Resolved, 0, len(mats))
	for _, m := range mats {
		resolved = append(resolved, material.Resolved{Material: m, DownloadURL: urls[m.FilePath]})
	}
	return resolved
}

func (svc *Service) logDelivery(ctx context.Context, req Request, out Outcome) {
	entry := AuditEntry{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		MaterialIDs: req.MaterialIDs,
		Channel:     req.Channel,
		Contact:     req.Contact,
		DeliveredAt: time.Now().UTC(),
		Status:      out.Status,
		Details:     out.Details,
	}
	if err := svc.audit.Append(ctx, entry); err != nil {
		svc.log.Warn("could not record delivery audit entry", err)
	}
}

package absence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"hrapp/internal/domain/access"
	"hrapp/internal/platform/email"
)

type Service struct {
	Store  StoreAPI
	Mailer email.Mailer
}

func NewService(store StoreAPI, mailer email.Mailer) *Service {
	return &Service{Store: store, Mailer: mailer}
}

// Create files a new PENDING request owned by the actor.
func (s *Service) Create(ctx context.Context, actor access.Principal, in NewRequest) (Request, error) {
	if err := access.Require(actor.Role, access.ActionSubmitAbsence, access.Self); err != nil {
		return Request{}, err
	}
	if err := ValidateRange(in.StartDate, in.EndDate); err != nil {
		return Request{}, err
	}
	id, err := s.Store.Create(ctx, actor.UserID, in)
	if err != nil {
		return Request{}, fmt.Errorf("create absence request: %w", err)
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Mine(ctx context.Context, actor access.Principal) ([]Request, error) {
	if err := access.Require(actor.Role, access.ActionViewOwnRequests, access.Self); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, Filter{EmployeeID: actor.UserID})
}

func (s *Service) All(ctx context.Context, actor access.Principal, limit, offset int) ([]Request, error) {
	if err := access.Require(actor.Role, access.ActionViewAllRequests, access.Other); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, Filter{Limit: limit, Offset: offset})
}

func (s *Service) Pending(ctx context.Context, actor access.Principal) ([]Request, error) {
	if err := access.Require(actor.Role, access.ActionViewPendingRequests, access.Other); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, Filter{Status: StatusPending})
}

func (s *Service) Get(ctx context.Context, actor access.Principal, id string) (Request, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if err := actor.Require(access.ActionViewRequest, req.EmployeeID); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Decide approves or rejects a pending request and notifies its owner.
func (s *Service) Decide(ctx context.Context, actor access.Principal, id string, d Decision) (Request, error) {
	if !access.CanAny(actor.Role, access.ActionDecideRequest) {
		return Request{}, access.Require(actor.Role, access.ActionDecideRequest, access.Other)
	}
	if err := ValidateDecision(d); err != nil {
		return Request{}, err
	}
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if err := actor.Require(access.ActionDecideRequest, req.EmployeeID); err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidStatus
	}
	if err := s.Store.Decide(ctx, id, actor.UserID, d); err != nil {
		return Request{}, err
	}
	updated, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	s.notifyDecision(ctx, updated)
	return updated, nil
}

// Cancel deletes one of the actor's own pending requests.
func (s *Service) Cancel(ctx context.Context, actor access.Principal, id string) error {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Require(access.ActionCancelRequest, req.EmployeeID); err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrInvalidStatus
	}
	return s.Store.DeletePending(ctx, id, actor.UserID)
}

// Export renders the requests matching status (all when empty) as a PDF.
func (s *Service) Export(ctx context.Context, actor access.Principal, status Status, w io.Writer) error {
	if err := access.Require(actor.Role, access.ActionExportRequests, access.Other); err != nil {
		return err
	}
	requests, err := s.Store.List(ctx, Filter{Status: status})
	if err != nil {
		return fmt.Errorf("list absence requests: %w", err)
	}
	title := "Absence requests"
	if status != "" {
		title = fmt.Sprintf("Absence requests (%s)", status)
	}
	return RenderPDF(w, title, time.Now(), requests)
}

func (s *Service) notifyDecision(ctx context.Context, req Request) {
	if s.Mailer == nil || req.EmployeeEmail == "" {
		return
	}
	verb := "approved"
	if req.Status == StatusRejected {
		verb = "rejected"
	}
	body := fmt.Sprintf("Your absence request for %s to %s was %s", req.StartDate, req.EndDate, verb)
	if req.ApprovedByName != "" {
		body += " by " + req.ApprovedByName
	}
	body += "."
	if req.Comments != "" {
		body += "\n\nComments: " + req.Comments
	}
	msg := email.Message{To: req.EmployeeEmail, Subject: "Absence request " + verb, Body: body}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		slog.Warn("absence decision email failed", "requestId", req.ID, "err", err)
	}
}

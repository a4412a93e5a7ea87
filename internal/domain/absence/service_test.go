package absence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrapp/internal/domain/access"
	"hrapp/internal/platform/email"
)

type fakeStore struct {
	requests map[string]Request
	nextID   int
	decided  int
	deleted  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: map[string]Request{}}
}

func (f *fakeStore) seed(employeeID string, status Status) string {
	f.nextID++
	id := fmt.Sprintf("r%d", f.nextID)
	f.requests[id] = Request{
		ID: id, EmployeeID: employeeID, EmployeeEmail: employeeID + "@company.com",
		StartDate: "2025-06-02", EndDate: "2025-06-04", Days: 3, Status: status,
	}
	return id
}

func (f *fakeStore) Create(ctx context.Context, employeeID string, in NewRequest) (string, error) {
	f.nextID++
	id := fmt.Sprintf("r%d", f.nextID)
	days, _ := CalculateDays(in.StartDate, in.EndDate)
	f.requests[id] = Request{
		ID: id, EmployeeID: employeeID, StartDate: in.StartDate.Format(DateLayout),
		EndDate: in.EndDate.Format(DateLayout), Days: days, Reason: in.Reason, Status: StatusPending,
	}
	return id, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]Request, error) {
	out := []Request{}
	for i := 1; i <= f.nextID; i++ {
		req, ok := f.requests[fmt.Sprintf("r%d", i)]
		if !ok {
			continue
		}
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeStore) Decide(ctx context.Context, id, approverID string, d Decision) error {
	req := f.requests[id]
	if req.Status != StatusPending {
		return ErrInvalidStatus
	}
	f.decided++
	req.Status = d.Status
	req.ApprovedBy = approverID
	req.ApprovedByName = "Morgan Manager"
	req.Comments = d.Comments
	f.requests[id] = req
	return nil
}

func (f *fakeStore) DeletePending(ctx context.Context, id, employeeID string) error {
	f.deleted++
	delete(f.requests, id)
	return nil
}

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

var (
	manager = access.Principal{UserID: "m1", Role: access.RoleManager}
	john    = access.Principal{UserID: "e1", Role: access.RoleEmployee}
	jane    = access.Principal{UserID: "e2", Role: access.RoleEmployee}
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateStartsPending(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	req, err := svc.Create(context.Background(), john, NewRequest{StartDate: day(2), EndDate: day(6), Reason: "Holiday"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if req.Status != StatusPending || req.EmployeeID != "e1" || req.Days != 5 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	if _, err := svc.Create(context.Background(), john, NewRequest{StartDate: day(6), EndDate: day(2)}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("invalid request must not be stored")
	}
}

func TestListingsByRole(t *testing.T) {
	store := newFakeStore()
	store.seed("e1", StatusPending)
	store.seed("e2", StatusApproved)
	store.seed("e2", StatusPending)
	svc := NewService(store, nil)
	ctx := context.Background()

	mine, err := svc.Mine(ctx, john)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one own request, got %d %v", len(mine), err)
	}
	if _, err := svc.All(ctx, john, 100, 0); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("expected ErrDenied for employee, got %v", err)
	}
	if _, err := svc.Pending(ctx, john); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("expected ErrDenied for employee, got %v", err)
	}
	all, err := svc.All(ctx, manager, 100, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected three requests, got %d %v", len(all), err)
	}
	pending, err := svc.Pending(ctx, manager)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected two pending requests, got %d %v", len(pending), err)
	}
}

func TestGetIsOwnerOrManager(t *testing.T) {
	store := newFakeStore()
	id := store.seed("e2", StatusPending)
	svc := NewService(store, nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, john, id); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if _, err := svc.Get(ctx, jane, id); err != nil {
		t.Fatalf("owner should read request: %v", err)
	}
	if _, err := svc.Get(ctx, manager, id); err != nil {
		t.Fatalf("manager should read request: %v", err)
	}
	if _, err := svc.Get(ctx, manager, "missing"); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestManagerApprovesAnyRequest(t *testing.T) {
	store := newFakeStore()
	id := store.seed("e1", StatusPending)
	mailer := &fakeMailer{}
	svc := NewService(store, mailer)

	req, err := svc.Decide(context.Background(), manager, id, Decision{Status: StatusApproved, Comments: "Enjoy"})
	if err != nil {
		t.Fatalf("decide error: %v", err)
	}
	if req.Status != StatusApproved || req.ApprovedBy != "m1" {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "e1@company.com" {
		t.Fatalf("expected one notification to the employee, got %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].Body, "approved by Morgan Manager") {
		t.Fatalf("unexpected body %q", mailer.sent[0].Body)
	}
}

func TestDecideRules(t *testing.T) {
	tests := []struct {
		name    string
		actor   access.Principal
		status  Status
		initial Status
		wantErr error
	}{
		{name: "employee cannot decide", actor: john, status: StatusApproved, initial: StatusPending, wantErr: access.ErrDenied},
		{name: "decision must be terminal", actor: manager, status: StatusPending, initial: StatusPending, wantErr: ErrInvalidDecision},
		{name: "already approved", actor: manager, status: StatusRejected, initial: StatusApproved, wantErr: ErrInvalidStatus},
		{name: "already rejected", actor: manager, status: StatusApproved, initial: StatusRejected, wantErr: ErrInvalidStatus},
		{name: "reject pending", actor: manager, status: StatusRejected, initial: StatusPending},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			id := store.seed("e2", tc.initial)
			svc := NewService(store, nil)
			_, err := svc.Decide(context.Background(), tc.actor, id, Decision{Status: tc.status})
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if store.decided != 0 {
				t.Fatal("rejected decision must not reach the store")
			}
		})
	}
}

func TestDecideMailFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	id := store.seed("e1", StatusPending)
	svc := NewService(store, &fakeMailer{err: errors.New("smtp down")})

	if _, err := svc.Decide(context.Background(), manager, id, Decision{Status: StatusRejected}); err != nil {
		t.Fatalf("mail failure must not fail the decision: %v", err)
	}
}

func TestCancelOwnPendingOnly(t *testing.T) {
	store := newFakeStore()
	own := store.seed("e1", StatusPending)
	decided := store.seed("e1", StatusApproved)
	other := store.seed("e2", StatusPending)
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.Cancel(ctx, john, other); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if err := svc.Cancel(ctx, manager, other); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("manager cannot cancel someone else's request, got %v", err)
	}
	if err := svc.Cancel(ctx, john, decided); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.Cancel(ctx, john, own); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if store.deleted != 1 {
		t.Fatalf("expected one deletion, got %d", store.deleted)
	}
}

func TestExportIsManagerOnly(t *testing.T) {
	store := newFakeStore()
	store.seed("e1", StatusPending)
	svc := NewService(store, nil)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), john, "", &buf); !errors.Is(err, access.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if err := svc.Export(context.Background(), manager, StatusPending, &buf); err != nil {
		t.Fatalf("export error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

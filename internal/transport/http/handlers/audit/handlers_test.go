package audithandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrapp/internal/domain/access"
	"hrapp/internal/domain/audit"
	"hrapp/internal/domain/auth"
	"hrapp/internal/transport/http/middleware"
)

type fakeService struct {
	filter audit.Filter
	listed bool
}

func (f *fakeService) Count(ctx context.Context, filter audit.Filter) (int, error) {
	return 1, nil
}

func (f *fakeService) List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error) {
	f.filter = filter
	f.listed = true
	return []audit.Event{{ID: "a1", Action: audit.ActionAbsenceDecide}}, nil
}

func newRouter(svc *fakeService, user auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestListAuditEvents(t *testing.T) {
	tests := []struct {
		name   string
		role   access.Role
		status int
	}{
		{name: "manager", role: access.RoleManager, status: http.StatusOK},
		{name: "employee", role: access.RoleEmployee, status: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/audit-events?action=absence.decide", nil)
			newRouter(svc, auth.UserContext{UserID: "u1", Role: tc.role}).ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status == http.StatusOK {
				if svc.filter.Action != audit.ActionAbsenceDecide || rec.Header().Get("X-Total-Count") != "1" {
					t.Fatalf("unexpected filter %+v or total %q", svc.filter, rec.Header().Get("X-Total-Count"))
				}
			} else if svc.listed {
				t.Fatal("denied request must not reach the store")
			}
		})
	}
}

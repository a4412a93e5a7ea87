package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hrapp/internal/client/session"
	"hrapp/internal/domain/access"
)

func cookieStores(w http.ResponseWriter, r *http.Request) session.Store {
	return session.NewCookieStore(w, r, false)
}

func withSession(req *http.Request, role string) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieToken, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: session.CookieRole, Value: role})
	req.AddCookie(&http.Cookie{Name: session.CookieUserID, Value: "u1"})
	return req
}

func TestProtectRedirectsWithoutSession(t *testing.T) {
	called := false
	h := Protect(cookieStores)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("secret"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/absence-requests", nil))

	if called {
		t.Fatal("protected view must not render without a session")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestProtectAttachesView(t *testing.T) {
	var got View
	h := Protect(cookieStores)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		if _, ok := session.FromContext(r.Context()); !ok {
			t.Fatal("expected session context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), "EMPLOYEE"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Session.Role != access.RoleEmployee || got.Session.UserID != "u1" {
		t.Fatalf("unexpected session %+v", got.Session)
	}
	for _, item := range got.Navigation {
		if item.Path == "/absence-requests/pending" {
			t.Fatal("employee navigation must not include pending approvals")
		}
	}
}

func TestNavigationByRole(t *testing.T) {
	paths := func(items []NavItem) map[string]bool {
		out := map[string]bool{}
		for _, item := range items {
			out[item.Path] = true
		}
		return out
	}

	manager := paths(Navigation(access.RoleManager))
	employee := paths(Navigation(access.RoleEmployee))

	if !manager["/absence-requests/pending"] {
		t.Fatal("manager navigation should include pending approvals")
	}
	for _, p := range []string{"/", "/profile/me", "/profiles", "/absence-requests", "/absence-requests/new"} {
		if !manager[p] || !employee[p] {
			t.Fatalf("expected %s for both roles", p)
		}
	}
	if len(Navigation(access.RoleNone)) != 0 {
		t.Fatal("absent role must get no navigation")
	}
}

func TestRequire(t *testing.T) {
	h := Protect(cookieStores)(Require(access.ActionViewPendingRequests, access.Other)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tests := []struct {
		role string
		want int
	}{
		{role: "MANAGER", want: http.StatusOK},
		{role: "EMPLOYEE", want: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/absence-requests/pending", nil), tc.role))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestActionsFilter(t *testing.T) {
	john := access.Principal{UserID: "e1", Role: access.RoleEmployee}
	got := Actions(john, "e2", access.ActionViewProfileDetailed, access.ActionEditProfile, access.ActionLeaveFeedback)
	if len(got) != 1 || got[0] != string(access.ActionLeaveFeedback) {
		t.Fatalf("unexpected actions %v", got)
	}
	own := Actions(john, "e1", access.ActionEditProfile, access.ActionLeaveFeedback)
	if len(own) != 1 || own[0] != string(access.ActionEditProfile) {
		t.Fatalf("unexpected own actions %v", own)
	}
}

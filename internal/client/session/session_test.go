package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrapp/internal/domain/access"
)

func TestMemoryStoreSetAndClear(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Token(); ok {
		t.Fatal("expected empty store")
	}

	store.Set(Session{Token: "t1", Role: access.RoleEmployee, UserID: "e1"})
	store.Set(Session{Token: "t2", Role: access.RoleManager, UserID: "m1"})
	if token, ok := store.Token(); !ok || token != "t2" {
		t.Fatalf("expected overwrite, got %q %v", token, ok)
	}
	if role, ok := store.Role(); !ok || role != access.RoleManager {
		t.Fatalf("unexpected role %q %v", role, ok)
	}

	store.Clear()
	store.Clear()
	if _, ok := store.Token(); ok {
		t.Fatal("expected token absent after clear")
	}
	if _, ok := store.Role(); ok {
		t.Fatal("expected role absent after clear")
	}
	if _, ok := store.UserID(); ok {
		t.Fatal("expected user id absent after clear")
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	store.Set(Session{Token: "t", Role: access.RoleEmployee, UserID: "e1"})

	now = now.Add(TTL - time.Minute)
	if _, ok := store.Token(); !ok {
		t.Fatal("expected session before ttl")
	}
	now = now.Add(time.Minute)
	if _, ok := store.Token(); ok {
		t.Fatal("expected session to expire after ttl")
	}
}

func TestCookieStoreWritesCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	store := NewCookieStore(rec, req, true)
	store.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	store.Set(Session{Token: "tok", Role: access.RoleManager, UserID: "m1"})
	if token, ok := store.Token(); !ok || token != "tok" {
		t.Fatalf("expected write to be readable, got %q %v", token, ok)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
			t.Fatalf("unexpected cookie attributes %+v", c)
		}
		if c.MaxAge != int(TTL/time.Second) {
			t.Fatalf("expected one day max age, got %d", c.MaxAge)
		}
	}
}

func TestCookieStoreReadsRequestAndClears(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: CookieRole, Value: "EMPLOYEE"})
	req.AddCookie(&http.Cookie{Name: CookieUserID, Value: "e1"})
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, req, false)

	sc, ok := Load(store)
	if !ok || sc.Token != "tok" || sc.Role != access.RoleEmployee || sc.UserID != "e1" {
		t.Fatalf("unexpected session %+v %v", sc, ok)
	}

	store.Clear()
	if _, ok := store.Token(); ok {
		t.Fatal("expected token absent after clear")
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 || c.Value != "" {
			t.Fatalf("expected expired cookie, got %+v", c)
		}
	}
}

func TestLoadRejectsUnknownRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: CookieRole, Value: "ADMIN"})
	store := NewCookieStore(httptest.NewRecorder(), req, false)

	if _, ok := Load(store); ok {
		t.Fatal("expected no session for unknown role")
	}
}

func TestContextRoundTrip(t *testing.T) {
	sc := Context{Token: "t", Role: access.RoleManager, UserID: "m1"}
	got, ok := FromContext(WithContext(context.Background(), sc))
	if !ok || got != sc {
		t.Fatalf("unexpected context %+v %v", got, ok)
	}
	if !got.IsManager() || got.Principal().UserID != "m1" {
		t.Fatalf("unexpected principal %+v", got.Principal())
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no session in empty context")
	}
}

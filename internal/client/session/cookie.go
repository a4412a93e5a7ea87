package session

import (
	"net/http"
	"time"

	"hrapp/internal/domain/access"
)

const (
	CookieToken  = "auth-token"
	CookieRole   = "user-role"
	CookieUserID = "user-id"
)

// CookieStore keeps the session in browser cookies. It is bound to one
// request: reads come from the request cookies, writes go to the response,
// and writes are visible to later reads on the same store.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	now     func() time.Time
	overlay *Session
	cleared bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure, now: time.Now}
}

func (c *CookieStore) Set(s Session) {
	expires := c.now().Add(TTL)
	c.write(CookieToken, s.Token, expires, int(TTL/time.Second))
	c.write(CookieRole, string(s.Role), expires, int(TTL/time.Second))
	c.write(CookieUserID, s.UserID, expires, int(TTL/time.Second))
	copied := s
	c.overlay = &copied
	c.cleared = false
}

func (c *CookieStore) Clear() {
	for _, name := range []string{CookieToken, CookieRole, CookieUserID} {
		c.write(name, "", time.Unix(0, 0), -1)
	}
	c.overlay = nil
	c.cleared = true
}

func (c *CookieStore) Token() (string, bool) {
	return c.value(CookieToken, func(s Session) string { return s.Token })
}

func (c *CookieStore) Role() (access.Role, bool) {
	raw, ok := c.value(CookieRole, func(s Session) string { return string(s.Role) })
	if !ok {
		return access.RoleNone, false
	}
	role, ok := access.ParseRole(raw)
	if !ok {
		return access.RoleNone, false
	}
	return role, true
}

func (c *CookieStore) UserID() (string, bool) {
	return c.value(CookieUserID, func(s Session) string { return s.UserID })
}

func (c *CookieStore) value(name string, pick func(Session) string) (string, bool) {
	if c.cleared {
		return "", false
	}
	if c.overlay != nil {
		v := pick(*c.overlay)
		return v, v != ""
	}
	cookie, err := c.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *CookieStore) write(name, value string, expires time.Time, maxAge int) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package auth

import (
	"testing"
	"time"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("secret")
	u := User{ID: "u_1", Email: "admin@forge.test", Role: RoleAdmin}

	tok, err := tm.New("sess-1", u, time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	c, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.SessionID() != "sess-1" || c.UserID != "u_1" || c.Role != RoleAdmin {
		t.Fatalf("claims=%+v", c)
	}
}

func TestTokenMaker_Rejects(t *testing.T) {
	u := User{ID: "u_1", Email: "admin@forge.test", Role: RoleAdmin}

	expired, _ := NewTokenMaker("secret").New("s", u, -time.Minute)
	if _, err := NewTokenMaker("secret").Parse(expired); err != ErrInvalidToken {
		t.Fatalf("expired token err=%v", err)
	}

	foreign, _ := NewTokenMaker("other").New("s", u, time.Minute)
	if _, err := NewTokenMaker("secret").Parse(foreign); err != ErrInvalidToken {
		t.Fatalf("foreign token err=%v", err)
	}

	noSession, _ := NewTokenMaker("secret").New("", u, time.Minute)
	if _, err := NewTokenMaker("secret").Parse(noSession); err != ErrInvalidToken {
		t.Fatalf("token without session id err=%v", err)
	}
}

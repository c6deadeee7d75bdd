package static

import (
	"context"
	"errors"
	"testing"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
)

func TestVerify(t *testing.T) {
	v := New(map[string]identity.User{
		"tok-alice": {UID: "u-alice", Email: "alice@example.com", EmailVerified: true},
	})
	ctx := context.Background()

	u, err := v.Verify(ctx, "tok-alice")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.UID != "u-alice" || !u.EmailVerified {
		t.Errorf("user = %+v", u)
	}

	if _, err := v.Verify(ctx, "bogus"); !errors.Is(err, core.ErrNotAuthenticated) {
		t.Errorf("bad token err = %v, want ErrNotAuthenticated", err)
	}
}

func TestDeleteUserRevokesTokens(t *testing.T) {
	v := New(map[string]identity.User{
		"tok-1": {UID: "u1"},
		"tok-2": {UID: "u1"},
		"tok-3": {UID: "u2"},
	})
	ctx := context.Background()

	if err := v.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	for _, tok := range []string{"tok-1", "tok-2"} {
		if _, err := v.Verify(ctx, tok); !errors.Is(err, core.ErrNotAuthenticated) {
			t.Errorf("token %s still valid after delete", tok)
		}
	}
	if _, err := v.Verify(ctx, "tok-3"); err != nil {
		t.Errorf("unrelated user's token revoked: %v", err)
	}
	if err := v.DeleteUser(ctx, "u1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

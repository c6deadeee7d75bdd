// Package static is a fixed-table identity backend for tests and local
// development. Tokens map directly to users; nothing is cryptographically
// verified.
package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
)

type Verifier struct {
	mu    sync.Mutex
	byTok map[string]identity.User
	byUID map[string]identity.User
}

func New(users map[string]identity.User) *Verifier {
	v := &Verifier{
		byTok: map[string]identity.User{},
		byUID: map[string]identity.User{},
	}
	for token, u := range users {
		v.byTok[token] = u
		v.byUID[u.UID] = u
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, token string) (identity.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, ok := v.byTok[token]
	if !ok {
		return identity.User{}, fmt.Errorf("verify token: %w", core.ErrNotAuthenticated)
	}
	return u, nil
}

func (v *Verifier) GetUser(ctx context.Context, uid string) (identity.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, ok := v.byUID[uid]
	if !ok {
		return identity.User{}, fmt.Errorf("get user %s: %w", uid, core.ErrNotFound)
	}
	return u, nil
}

func (v *Verifier) DeleteUser(ctx context.Context, uid string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, ok := v.byUID[uid]
	if !ok {
		return fmt.Errorf("delete user %s: %w", uid, core.ErrNotFound)
	}
	delete(v.byUID, uid)
	for tok, tu := range v.byTok {
		if tu.UID == u.UID {
			delete(v.byTok, tok)
		}
	}
	return nil
}

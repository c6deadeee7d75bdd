// Package firebase verifies Firebase ID tokens and administers accounts
// through the Firebase Admin SDK.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
)

type Verifier struct {
	auth *auth.Client
}

func New(ctx context.Context, projectID, credentialsFile string) (*Verifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("create auth client: %w", err)
	}
	return &Verifier{auth: client}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (identity.User, error) {
	decoded, err := v.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return identity.User{}, fmt.Errorf("verify id token: %w: %w", core.ErrNotAuthenticated, err)
	}
	user := identity.User{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		user.Email = email
	}
	if verified, ok := decoded.Claims["email_verified"].(bool); ok {
		user.EmailVerified = verified
	}
	return user, nil
}

func (v *Verifier) GetUser(ctx context.Context, uid string) (identity.User, error) {
	record, err := v.auth.GetUser(ctx, uid)
	if err != nil {
		return identity.User{}, fmt.Errorf("get user %s: %w", uid, err)
	}
	return identity.User{
		UID:           record.UID,
		Email:         record.Email,
		EmailVerified: record.EmailVerified,
	}, nil
}

func (v *Verifier) DeleteUser(ctx context.Context, uid string) error {
	if err := v.auth.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}

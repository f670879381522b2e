// Package firebase verifies Firebase ID tokens for the optional federated
// login.
package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewAuthClient initializes a Firebase app from a service account file and
// returns its authentication client.
func NewAuthClient(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Println("Firebase auth client initialized.")
	return client, nil
}

// Email returns the email carried by a verified ID token. Addresses the
// provider marks as unverified are never returned, so they cannot be used
// to link an account.
func Email(token *auth.Token) string {
	if token == nil {
		return ""
	}
	email, _ := token.Claims["email"].(string)
	if verified, ok := token.Claims["email_verified"].(bool); ok && !verified {
		return ""
	}
	return email
}

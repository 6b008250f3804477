package firebase

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Clients holds the Firebase services used by the application. Both fields
// are nil when Firebase is not configured.
type Clients struct {
	Auth      *auth.Client
	Messaging *messaging.Client
}

// InitFirebase initializes the Firebase app from a service account file.
// An empty credentials path disables Firebase login and push nudges.
func InitFirebase(ctx context.Context, credentialsPath string) (*Clients, error) {
	if credentialsPath == "" {
		log.Println("Firebase credentials not configured, Firebase login and push disabled")
		return &Clients{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase auth client: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase messaging client: %w", err)
	}

	log.Println("Firebase initialized")
	return &Clients{Auth: authClient, Messaging: messagingClient}, nil
}

// Package account implements the login, registration and logout workflows
// on top of the API client and the session manager.
package account

import (
	"context"

	"bookcatalog/internal/apiclient"
)

const (
	HomePath         = "/"
	registrationPath = "registration"
)

// LoginChecker exchanges credentials for a bearer token.
type LoginChecker interface {
	LoginCheck(ctx context.Context, email, password string) (string, error)
}

// Registrar creates user accounts.
type Registrar interface {
	Create(ctx context.Context, payload apiclient.User, opts ...apiclient.CallOption) (apiclient.User, error)
}

type Session interface {
	SetToken(token string) error
	ClearToken() error
}

// Navigator moves the user to another view of the application.
type Navigator interface {
	Navigate(path string)
}

type Service struct {
	auth     LoginChecker
	users    Registrar
	session  Session
	notifier apiclient.Notifier
	nav      Navigator
}

func NewService(auth LoginChecker, users Registrar, session Session, notifier apiclient.Notifier, nav Navigator) *Service {
	return &Service{auth: auth, users: users, session: session, notifier: notifier, nav: nav}
}

// NewClientService wires the workflows to client's login and user endpoints.
func NewClientService(client *apiclient.Client, session Session, notifier apiclient.Notifier, nav Navigator) *Service {
	return NewService(client, client.Users(), session, notifier, nav)
}

// Login stores the token returned for the credentials, then navigates home
// and reports success. On failure the session is not touched.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.auth.LoginCheck(ctx, email, password)
	if err != nil {
		s.notifier.Error("Login failed", "Invalid credentials")
		return err
	}

	if err := s.session.SetToken(token); err != nil {
		s.notifier.Error("Login failed", "The session could not be saved.")
		return err
	}

	s.nav.Navigate(HomePath)
	s.notifier.Success("Welcome back", "You are now logged in.")
	return nil
}

// Register creates an account. It does not log the user in; the client has
// already reported any failure.
func (s *Service) Register(ctx context.Context, email, password string) (apiclient.User, error) {
	created, err := s.users.Create(ctx, apiclient.User{Email: email, Password: password}, apiclient.WithEndpoint(registrationPath))
	if err != nil {
		return apiclient.User{}, err
	}
	s.notifier.Success("Account created", "Your account has been created, please log in.")
	return created, nil
}

func (s *Service) Logout() error {
	return s.session.ClearToken()
}

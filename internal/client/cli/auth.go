package cli

import (
	"context"
	"fmt"

	"github.com/templetsolutions/c4at3-client/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// credentials prompts for email and password. The caller wipes the password.
func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts the user for an email and password and creates a new
// account. A successful registration signs the user in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	printlnFn("Creating your account…")
	u, err := a.authService.Register(ctx, email, string(password))
	if err != nil {
		return a.fail(ctx, err, "Sign up failed. Please try again.")
	}

	printlnFn(fmt.Sprintf("Account created! Welcome, %s.", u.DisplayName()))
	return nil
}

// Login prompts the user for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	printlnFn("Checking your credentials…")
	u, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return a.fail(ctx, err, "Login failed. Please try again.")
	}

	printlnFn(fmt.Sprintf("Success! Welcome back, %s!", u.DisplayName()))
	return nil
}

// Logout forgets the session on this machine.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.fail(ctx, err, "Logout failed. Please try again.")
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return a.fail(ctx, err, "Unable to load your profile.")
	}

	email := u.Email
	if email == "" {
		email = "(no email)"
	}
	printlnFn(fmt.Sprintf("Signed in as %s, plan: %s", email, u.TierOrDefault()))
	if exp, ok := a.authService.Expiry(); ok {
		printlnFn("Session valid until", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

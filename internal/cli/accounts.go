package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/portal"
	"github.com/krsbot-dev/krsbot/internal/vault"
)

// Keygen generates a fresh vault key and prints it in the form the
// ENCRYPTION_KEY variable expects. Nothing is stored.
func (a *App) Keygen(ctx context.Context) error {
	key, err := vault.GenerateKey()
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "ENCRYPTION_KEY=%s\n", key)
	return nil
}

// Accounts lists the stored portal accounts.
func (a *App) Accounts(ctx context.Context) error {
	list, err := a.accounts.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No accounts stored. Use 'addaccount' to add one.")
		return nil
	}
	a.printAccounts(list)
	return nil
}

func (a *App) printAccounts(list []*models.Account) {
	for i, acc := range list {
		fmt.Fprintf(a.out, "%d. %s (%s) - %s\n", i+1, acc.Label(), acc.Username, acc.Status)
	}
}

// pickAccount lists the stored accounts and prompts for a number.
func (a *App) pickAccount(ctx context.Context, prompt string) (*models.Account, error) {
	list, err := a.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("no accounts stored")
	}
	a.printAccounts(list)

	answer, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(list) {
		return nil, fmt.Errorf("invalid account number: %s", answer)
	}
	return list[n-1], nil
}

// AddAccount prompts for credentials and stores a new account. The password
// is read without echo and leaves this call encrypted.
func (a *App) AddAccount(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter student username (e.g. 1301XXXXXX@student)", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	name, err := getSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return a.fail(err)
	}

	account, err := a.accounts.Create(ctx, username, password, name)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Account %s stored.\n", account.Label())
	return nil
}

// RotatePassword replaces the stored password for one account.
func (a *App) RotatePassword(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account to update")
	if err != nil {
		return a.fail(err)
	}
	password, err := getPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	if err := a.accounts.Rotate(ctx, account.ID, password); err != nil {
		return a.fail(err)
	}
	// Drop the cached session so the next login uses the new password.
	if a.sessAccount != nil && a.sessAccount.ID == account.ID {
		a.endSession()
	}
	fmt.Fprintln(a.out, "Password updated.")
	return nil
}

// ToggleAccount flips an account between active and inactive. Inactive
// accounts are skipped by batch runs but stay usable interactively.
func (a *App) ToggleAccount(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account to toggle")
	if err != nil {
		return a.fail(err)
	}
	if err := a.accounts.SetActive(ctx, account.ID, !account.Active()); err != nil {
		return a.fail(err)
	}
	if account.Active() {
		fmt.Fprintf(a.out, "Account %s deactivated.\n", account.Label())
	} else {
		fmt.Fprintf(a.out, "Account %s activated.\n", account.Label())
	}
	return nil
}

// DeleteAccount removes an account and its queued course targets after
// confirmation. Enrollment log history is kept.
func (a *App) DeleteAccount(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account to delete")
	if err != nil {
		return a.fail(err)
	}
	ok, err := getConfirmation(a.reader,
		fmt.Sprintf("Delete account %s and its course targets?", account.Label()), a.out)
	if err != nil {
		return a.fail(err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if a.sessAccount != nil && a.sessAccount.ID == account.ID {
		a.endSession()
	}
	if err := a.accounts.Delete(ctx, account.ID); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Account deleted. Log history is kept.")
	return nil
}

// VerifyAccount performs a live portal login with the stored credentials and
// reports the student name on success. The probe session is discarded.
func (a *App) VerifyAccount(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account to verify")
	if err != nil {
		return a.fail(err)
	}
	name, err := a.accounts.Verify(ctx, account)
	if err != nil {
		fmt.Fprintf(a.out, "Verification failed: %s\n", portal.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "OK: %s\n", name)
	return nil
}

// Status reports the account's standing at the university: the enrollment
// status string the portal keeps and the scopes granted to the session.
func (a *App) Status(ctx context.Context) error {
	account, err := a.pickAccount(ctx, "Select account")
	if err != nil {
		return a.fail(err)
	}
	session, err := a.sessionFor(ctx, account)
	if err != nil {
		return a.fail(err)
	}
	status, err := session.StudentStatus(ctx)
	if err != nil {
		return a.fail(err)
	}
	scopes, err := session.Scopes(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Student status: %s\n", status)
	fmt.Fprintf(a.out, "Scopes: %s\n", strings.Join(scopes, ", "))
	return nil
}

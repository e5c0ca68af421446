// Package services holds the account lifecycle glue between the CLI, the
// stores and the portal.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krsbot-dev/krsbot/internal/common"
	"github.com/krsbot-dev/krsbot/internal/enroll"
	"github.com/krsbot-dev/krsbot/internal/logging"
	"github.com/krsbot-dev/krsbot/internal/models"
	"github.com/krsbot-dev/krsbot/internal/repositories/repomanager"
	"github.com/krsbot-dev/krsbot/internal/vault"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)

// AccountService manages stored portal accounts. Passwords pass through
// here exactly once on the way in (encryption) and are otherwise opaque.
type AccountService struct {
	manager   repomanager.Manager
	cipher    *vault.Cipher
	newClient enroll.ClientFactory
	ownerID   string
	logger    logging.Logger
}

func NewAccountService(manager repomanager.Manager, cipher *vault.Cipher,
	newClient enroll.ClientFactory, ownerID string, logger logging.Logger) *AccountService {
	return &AccountService{
		manager:   manager,
		cipher:    cipher,
		newClient: newClient,
		ownerID:   ownerID,
		logger:    logger,
	}
}

// Create validates, encrypts and stores a new account. Usernames are
// unique per owner; a second registration returns ErrAlreadyExists.
func (s *AccountService) Create(ctx context.Context, username, password, name string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	repo := s.manager.Accounts(s.manager.Conn())
	existing, err := repo.List(ctx, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	for _, a := range existing {
		if a.Username == username {
			return nil, common.ErrAlreadyExists
		}
	}

	sealed, err := s.cipher.Encrypt(password)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}

	account, err := repo.Create(ctx, &models.Account{
		OwnerID:           s.ownerID,
		Username:          username,
		PasswordEncrypted: sealed,
		Name:              strings.TrimSpace(name),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "account", account.Label())
	return account, nil
}

// List returns the owner's accounts in creation order.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.manager.Accounts(s.manager.Conn()).List(ctx, s.ownerID)
}

// Get returns one stored account.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	return s.manager.Accounts(s.manager.Conn()).GetByID(ctx, id)
}

// Rotate re-encrypts and stores a new password for the account.
func (s *AccountService) Rotate(ctx context.Context, id, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	sealed, err := s.cipher.Encrypt(password)
	if err != nil {
		return fmt.Errorf("error encrypting password: %w", err)
	}
	if err := s.manager.Accounts(s.manager.Conn()).UpdatePassword(ctx, id, sealed); err != nil {
		return err
	}
	s.logger.Info(ctx, "account password rotated", "account_id", id)
	return nil
}

// SetActive toggles whether the batch runner picks the account up.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) error {
	status := models.AccountInactive
	if active {
		status = models.AccountActive
	}
	return s.manager.Accounts(s.manager.Conn()).SetStatus(ctx, id, status)
}

// Delete removes the account and its course targets; enrollment log
// history stays.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.manager.RemoveAccount(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "account removed", "account_id", id)
	return nil
}

// Verify performs a live login against the portal with the stored
// credentials and returns the student name the profile reports. The
// session is discarded afterwards.
func (s *AccountService) Verify(ctx context.Context, account *models.Account) (string, error) {
	password, err := s.cipher.Decrypt(account.PasswordEncrypted)
	if err != nil {
		return "", err
	}

	client := s.newClient()
	defer client.Logout()

	if err := client.Authenticate(ctx, account.Username, password); err != nil {
		return "", err
	}
	profile, err := client.ResolveIdentity(ctx)
	if err != nil {
		return "", err
	}
	return profile.Fullname, nil
}

// Package models defines the stored records krsbot manages: portal
// accounts, course targets, and the append-only enrollment log.
package models

import "time"

// AccountStatus marks whether the batch runner should pick an account up.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account is a stored student portal account. The password is always held
// encrypted; plaintext exists only transiently inside a login call.
type Account struct {
	ID                string
	OwnerID           string
	Username          string
	PasswordEncrypted string
	Name              string
	Status            AccountStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active reports whether the account participates in batch runs.
func (a *Account) Active() bool {
	return a.Status == AccountActive
}

// Label returns a human-facing identifier: the display name when set,
// otherwise the username.
func (a *Account) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}

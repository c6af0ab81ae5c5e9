package service

import (
	"fmt"

	"github.com/trademate/portal-server-go/internal/config"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/util"
)

// CredentialVerifier decides whether a password unlocks a portal account.
type CredentialVerifier interface {
	Verify(account *model.PortalAccount, password string) bool
	Name() string
}

// PermissiveVerifier accepts any password, including an empty one.
// INSECURE: demo behaviour only.
type PermissiveVerifier struct{}

func (PermissiveVerifier) Verify(*model.PortalAccount, string) bool { return true }

func (PermissiveVerifier) Name() string { return config.CredentialModePermissive }

// BcryptVerifier checks the password against the account's bcrypt hash.
// Accounts without a hash cannot log in with a password.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(account *model.PortalAccount, password string) bool {
	if account.PasswordHash == nil || *account.PasswordHash == "" {
		return false
	}
	return util.CheckPasswordHash(password, *account.PasswordHash)
}

func (BcryptVerifier) Name() string { return config.CredentialModeBcrypt }

func NewCredentialVerifier(mode string) (CredentialVerifier, error) {
	switch mode {
	case config.CredentialModePermissive:
		return PermissiveVerifier{}, nil
	case config.CredentialModeBcrypt:
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}

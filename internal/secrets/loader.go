// Package secrets resolves adapter credentials. Config-file values win;
// otherwise the OS keychain is consulted. Callers treat a missing
// credential as "adapter disabled", not as an error.
package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "sourcing-engine"

// Known keychain account names.
const (
	AccountPeopleAPI = "people_api"
	AccountSerpAPI   = "serpapi"
	AccountGemini    = "gemini"
)

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	key, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("credential not found in keychain")
	}
	return key, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("credential value is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// Resolve prefers the config-provided value and falls back to the keychain.
// Returns "" when neither has the credential.
func Resolve(cfgValue, account string) string {
	if v := strings.TrimSpace(cfgValue); v != "" {
		return v
	}
	if v, err := Get(account); err == nil {
		return v
	}
	return ""
}

package secrets

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups this app's secrets in the OS keychain.
	KeyringService = "vacancyhunt"

	// TokenEnv overrides the keychain, handy for CI and one-off runs.
	TokenEnv = "VACANCYHUNT_API_TOKEN"
)

// APIToken returns the optional job-board API token. The public search
// endpoints work anonymously, so an empty result is not an error.
func APIToken(keyringAccount string) string {
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		return tok
	}
	if strings.TrimSpace(keyringAccount) == "" {
		return ""
	}
	tok, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok)
}

func SetAPIToken(keyringAccount, token string) error {
	return keyring.Set(KeyringService, keyringAccount, token)
}

func DeleteAPIToken(keyringAccount string) error {
	return keyring.Delete(KeyringService, keyringAccount)
}

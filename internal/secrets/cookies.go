package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the scraper's secrets in the OS keychain.
	KeyringService = "careers-scraper"
)

// GetCookieHeader returns the stored "Cookie:" header value, empty if nothing is stored.
func GetCookieHeader(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", account, err)
	}
	return strings.TrimSpace(v), nil
}

func SetCookieHeader(account, header string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	header = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "Cookie:"))
	if header == "" {
		return errors.New("cookie header is empty")
	}
	return keyring.Set(KeyringService, account, header)
}

func DeleteCookieHeader(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// KeyringAccount derives the account name from the careers site URL,
// e.g. "guardianlife.wd5.myworkdayjobs.com/Guardian-Life-Careers".
func KeyringAccount(boardURL string) string {
	s := strings.TrimSpace(boardURL)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.Trim(s, "/")
}

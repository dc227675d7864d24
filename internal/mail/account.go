// Package mail sends and reads email through the account selected in the configuration.
package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultService is used when no service has been selected.
const DefaultService = "QQ"

var ErrNoAccount = errors.New("no email account configured")

// Account holds the credentials and servers of one email service.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
	IMAPHost string `json:"imap_host"`
}

// ParseAccounts decodes a json object of service name to Account. Service names are upper-cased.
func ParseAccounts(raw string) (map[string]Account, error) {
	ret := make(map[string]Account)
	if strings.TrimSpace(raw) == "" {
		return ret, nil
	}
	var parsed map[string]Account
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse email accounts: %w", err)
	}
	for k, v := range parsed {
		ret[strings.ToUpper(k)] = v
	}
	return ret, nil
}

// Select the account of service, which is matched case-insensitively.
func Select(accounts map[string]Account, service string) (string, Account, error) {
	service = strings.ToUpper(strings.TrimSpace(service))
	if service == "" {
		service = DefaultService
	}
	acc, ok := accounts[service]
	if !ok {
		return service, Account{}, fmt.Errorf("%w: unsupported email service '%v'", ErrNoAccount, service)
	}
	if acc.Username == "" || acc.Password == "" {
		return service, Account{}, fmt.Errorf("%w: missing username or password of '%v'", ErrNoAccount, service)
	}
	return service, acc, nil
}

package wallet

import (
	"context"
	"errors"
)

// ErrNoAccounts is returned when the provider grants no accounts.
var ErrNoAccounts = errors.New("provider returned no accounts")

// Connector drives the session from the provider: explicit connects and
// accountsChanged pushes both land in the session, which fans them out.
type Connector struct {
	provider *Provider
	session  *Session
}

// NewConnector wires the provider's account pushes into the session.
func NewConnector(provider *Provider, session *Session) *Connector {
	c := &Connector{provider: provider, session: session}
	provider.OnAccountsChanged(func(accounts []string) {
		if len(accounts) == 0 {
			session.Disconnect()
			return
		}
		session.SetAddress(accounts[0])
	})
	return c
}

// Session returns the session the connector drives.
func (c *Connector) Session() *Session {
	return c.session
}

// Connect prompts the user through the provider and connects the first
// granted account.
func (c *Connector) Connect(ctx context.Context) (string, error) {
	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	c.session.SetAddress(accounts[0])
	return accounts[0], nil
}

// Resume reconnects a previously authorized account without prompting.
// Returns ErrNoAccounts when no prior authorization exists.
func (c *Connector) Resume(ctx context.Context) (string, error) {
	accounts, err := c.provider.Accounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	c.session.SetAddress(accounts[0])
	return accounts[0], nil
}

// Disconnect clears the session. The provider authorization is untouched;
// Resume can restore it.
func (c *Connector) Disconnect() {
	c.session.Disconnect()
}

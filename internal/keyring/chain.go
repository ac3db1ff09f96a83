package keyring

import "errors"

// ChainProvider tries multiple providers in order, returning the first success.
type ChainProvider struct {
	Providers []Provider
}

// AccessToken returns the first token any provider yields.
func (p *ChainProvider) AccessToken() (string, error) {
	for _, provider := range p.Providers {
		token, err := provider.AccessToken()
		if err == nil {
			return token, nil
		}
	}
	return "", ErrNoAccessToken
}

// StoreAccessToken stores the token using the first provider that accepts it.
func (p *ChainProvider) StoreAccessToken(token string) error {
	for _, provider := range p.Providers {
		if err := provider.StoreAccessToken(token); err == nil {
			return nil
		}
	}
	return errors.New("no provider could store the access token")
}

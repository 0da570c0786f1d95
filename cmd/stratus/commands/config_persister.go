package commands

import (
	"sync"
	"time"
)

// ConfigPersister implements the auth.ConfigPersister interface, writing
// renewed service tokens back to the CLI config file so a later invocation
// can reuse them without another exchange.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken caches the exchanged token and its expiry in the config.
// The refresh token parameter is accepted for interface compatibility; the
// token endpoint does not issue refresh tokens.
func (p *ConfigPersister) UpdateAPIToken(endpoint, token string, expiresAt time.Time, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	config.ServiceToken = token
	if !expiresAt.IsZero() {
		config.ServiceTokenExpiresAt = &expiresAt
	}

	now := time.Now()
	config.LastRefreshed = &now

	return saveConfigStruct(config)
}

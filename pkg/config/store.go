package config

import "fmt"

// Store types supported by the pet service.
const (
	StoreTypeMemory   = "memory"
	StoreTypePostgres = "postgres"
)

type StoreConfig struct {
	Type string `koanf:"type"`
}

func (c *StoreConfig) Validate() error {
	switch c.Type {
	case StoreTypeMemory, StoreTypePostgres:
		return nil
	default:
		return fmt.Errorf("unsupported store type: %q (expected %q or %q)", c.Type, StoreTypeMemory, StoreTypePostgres)
	}
}

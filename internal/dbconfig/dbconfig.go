// Package dbconfig provides database connection settings used by both
// the config and driver packages. This package exists to break the
// circular import between config and driver packages.
package dbconfig

// SourceConfig holds the settings needed to reach a table in a database.
type SourceConfig struct {
	Type            string `yaml:"type"` // "postgres", "mssql", "mysql" or "sqlite"
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Database        string `yaml:"database"` // sqlite: path to the database file
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Schema          string `yaml:"schema"`
	Table           string `yaml:"table"`
	SSLMode         string `yaml:"ssl_mode"`          // PostgreSQL/MySQL: disable, require, verify-ca, verify-full
	TrustServerCert bool   `yaml:"trust_server_cert"` // MSSQL: trust server certificate (default: false)
	Encrypt         *bool  `yaml:"encrypt"`           // MSSQL: enable TLS encryption (default: true)
	PacketSize      int    `yaml:"packet_size"`       // MSSQL: TDS packet size in bytes
	MaxConns        int    `yaml:"max_conns"`
}

// IsSet reports whether a database source was configured.
func (c *SourceConfig) IsSet() bool {
	return c != nil && c.Type != ""
}

// DSNOptions returns a map of options for building a DSN.
func (c *SourceConfig) DSNOptions() map[string]any {
	opts := make(map[string]any)
	if c.SSLMode != "" {
		opts["ssl_mode"] = c.SSLMode
	}
	if c.Encrypt != nil {
		opts["encrypt"] = *c.Encrypt
	}
	if c.TrustServerCert {
		opts["trustServerCertificate"] = true
	}
	if c.PacketSize > 0 {
		opts["packetSize"] = c.PacketSize
	}
	return opts
}

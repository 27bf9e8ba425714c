package directory

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds configuration for the legacy directory service.
// BindDN and BindPassword have no defaults; they must be supplied.
type Config struct {
	// URL is the directory endpoint, e.g. ldaps://ufds.example.com:636.
	URL string `mapstructure:"url" default:""`
	// BindDN is the distinguished name used to authenticate.
	BindDN string `mapstructure:"bind_dn" default:""`
	// BindPassword is the credential for BindDN.
	BindPassword string `mapstructure:"bind_password" default:""`
	// BaseDN is the subtree searched for package entries.
	BaseDN string `mapstructure:"base_dn" default:"ou=packages, o=smartdc"`
	// Filter selects package entries.
	Filter string `mapstructure:"filter" default:"(objectclass=sdcpackage)"`
	// TimeoutSeconds bounds connect, bind and each protocol message.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// BufferSize is the number of entries buffered between the connection and the loader.
	BufferSize int `mapstructure:"buffer_size" default:"64"`
	// InsecureSkipVerify disables TLS certificate verification for ldaps URLs.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" default:"false"`
}

// ErrMissingCredentials is returned when a bind DN or password is not configured.
var ErrMissingCredentials = errors.New("directory bind DN and password are required")

// Validate checks that the configuration can be used to connect.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("directory url is required")
	}
	if c.BindDN == "" || c.BindPassword == "" {
		return ErrMissingCredentials
	}
	return nil
}

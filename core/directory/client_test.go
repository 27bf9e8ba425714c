package directory

import (
	"context"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"Complete", Config{URL: "ldaps://ufds:636", BindDN: "cn=root", BindPassword: "secret"}, nil},
		{"MissingDN", Config{URL: "ldaps://ufds:636", BindPassword: "secret"}, ErrMissingCredentials},
		{"MissingPassword", Config{URL: "ldaps://ufds:636", BindDN: "cn=root"}, ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("MissingURL", func(t *testing.T) {
		assert.Error(t, Config{BindDN: "cn=root", BindPassword: "secret"}.Validate())
	})
}

func TestDial_RequiresCredentials(t *testing.T) {
	_, err := Dial(context.Background(), Config{URL: "ldap://127.0.0.1:1"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestDial_Unreachable(t *testing.T) {
	cfg := Config{
		URL:            "ldap://127.0.0.1:1",
		BindDN:         "cn=root",
		BindPassword:   "secret",
		TimeoutSeconds: 1,
	}
	s, err := Dial(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestAttributes(t *testing.T) {
	entry := ldap.NewEntry("uuid=1, ou=packages, o=smartdc", map[string][]string{
		"uuid":        {"1"},
		"objectClass": {"sdcpackage"},
		"networks":    {"n1", "n2"},
		"empty":       {},
	})

	attrs := Attributes(entry)

	assert.Equal(t, "1", attrs["uuid"])
	assert.Equal(t, "sdcpackage", attrs["objectclass"])
	assert.Equal(t, []string{"n1", "n2"}, attrs["networks"])
	assert.NotContains(t, attrs, "empty")
}

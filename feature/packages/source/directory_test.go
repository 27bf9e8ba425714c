package source

import (
	"context"
	"errors"
	"testing"

	"package-migrator/core/directory"
	"package-migrator/feature/packages/models"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCursor struct {
	entries []*ldap.Entry
	err     error
	idx     int
}

func (c *fakeCursor) Next() bool {
	if c.idx >= len(c.entries) {
		return false
	}
	c.idx++
	return true
}

func (c *fakeCursor) Entry() *ldap.Entry {
	return c.entries[c.idx-1]
}

func (c *fakeCursor) Err() error {
	return c.err
}

type fakeSession struct {
	cursor *fakeCursor
	base   string
	filter string
	closed bool
}

func (s *fakeSession) Search(ctx context.Context, baseDN, filter string) directory.Cursor {
	s.base, s.filter = baseDN, filter
	return s.cursor
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func dialerFor(s *fakeSession, err error) directory.Dialer {
	return func(ctx context.Context, cfg directory.Config) (directory.Session, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func packageEntry(uuid string) *ldap.Entry {
	return ldap.NewEntry("uuid="+uuid+", ou=packages, o=smartdc", map[string][]string{
		"objectclass": {"sdcpackage"},
		"uuid":        {uuid},
		"vcpus":       {"2"},
		"networks":    {`["n1","n2"]`},
	})
}

var testDirectoryConfig = directory.Config{
	URL:          "ldaps://ufds.test:636",
	BindDN:       "cn=root",
	BindPassword: "secret",
	BaseDN:       "ou=packages, o=smartdc",
	Filter:       "(objectclass=sdcpackage)",
}

func TestDirectoryLoader(t *testing.T) {
	session := &fakeSession{cursor: &fakeCursor{entries: []*ldap.Entry{packageEntry("a"), packageEntry("b")}}}
	loader := NewDirectoryLoader(testDirectoryConfig, dialerFor(session, nil), zap.NewNop())

	entries, err := collect(t, loader)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a", entries[0].Package.UUID())
	assert.Equal(t, int64(2), entries[0].Package[models.FieldVCPUs])
	assert.Equal(t, []string{"n1", "n2"}, entries[0].Package[models.FieldNetworks])
	assert.False(t, entries[0].Package.Has("objectclass"))
	assert.Equal(t, "b", entries[1].Package.UUID())

	assert.Equal(t, "ou=packages, o=smartdc", session.base)
	assert.Equal(t, "(objectclass=sdcpackage)", session.filter)
	assert.True(t, session.closed)
}

func TestDirectoryLoader_ConnectFailure(t *testing.T) {
	loader := NewDirectoryLoader(testDirectoryConfig, dialerFor(nil, errors.New("invalid credentials")), zap.NewNop())

	entries, err := collect(t, loader)
	require.Error(t, err)
	assert.True(t, IsSourceError(err))
	assert.Empty(t, entries)
}

func TestDirectoryLoader_MidStreamFailure(t *testing.T) {
	session := &fakeSession{cursor: &fakeCursor{
		entries: []*ldap.Entry{packageEntry("a")},
		err:     errors.New("connection reset by peer"),
	}}
	loader := NewDirectoryLoader(testDirectoryConfig, dialerFor(session, nil), zap.NewNop())

	entries, err := collect(t, loader)
	assert.Len(t, entries, 1)
	require.Error(t, err)
	assert.True(t, IsSourceError(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, session.closed)
}

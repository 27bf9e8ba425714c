package source

import (
	"strings"
	"testing"

	"package-migrator/feature/packages/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ldifDump = `version: 1

# sdc_128
dn: uuid=7fc87f43-2def-4e6f-9f9f-000000000001, ou=packages, o=smartdc
objectclass: sdcpackage
uuid: 7fc87f43-2def-4e6f-9f9f-000000000001
name: sdc_128
networks: n1
networks: n2
description:: c21hbGwgcGFja2FnZQ==
quota: 10240

dn: ou=packages, o=smartdc
objectclass: organizationalunit
ou: packages

dn: uuid=7fc87f43-2def-4e6f-9f9f-000000000002, ou=packages, o=smartdc
uuid: 7fc87f43-2def-4e6f-9f9f-000000000002
traits: {"ssd":
  true}
owner_uuid: 930896af-bf8c-48d4-885c-6573a94b1853
`

func TestLDIFLoader(t *testing.T) {
	path := writeFile(t, "packages.ldif", ldifDump)
	logger, logs := observedLogger()

	entries, err := collect(t, NewLDIFLoader(path, nil, logger))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0].Package
	assert.Equal(t, 0, entries[0].Position)
	assert.Equal(t, "7fc87f43-2def-4e6f-9f9f-000000000001", first.UUID())
	assert.Equal(t, []string{"n1", "n2"}, first[models.FieldNetworks])
	assert.Equal(t, "small package", first[models.FieldDescription])
	assert.Equal(t, int64(10240), first[models.FieldQuota])
	assert.False(t, first.Has("dn"))
	assert.False(t, first.Has("objectclass"))

	second := entries[1].Package
	assert.Equal(t, 1, entries[1].Position)
	assert.Equal(t, map[string]any{"ssd": true}, second[models.FieldTraits])
	assert.Equal(t, []string{"930896af-bf8c-48d4-885c-6573a94b1853"}, second[models.FieldOwnerUUIDs])
	assert.Empty(t, entries[1].Warnings)

	assert.Equal(t, 1, logs.FilterMessage("Skipping LDIF entry without uuid").Len())
}

func TestLDIFLoader_SkipsMalformedBlocks(t *testing.T) {
	dump := strings.Join([]string{
		"uuid: a",
		"this line has no separator",
		"",
		"uuid: b",
		"description:: !!!not-base64",
		"",
		"uuid: c",
		"name: ok",
		"",
	}, "\n")
	path := writeFile(t, "packages.ldif", dump)
	logger, logs := observedLogger()

	entries, err := collect(t, NewLDIFLoader(path, nil, logger))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Package.UUID())
	assert.Equal(t, 2, logs.FilterMessage("Skipping malformed LDIF entry").Len())
}

func TestLDIFLoader_OversizedLineFailsItsBlock(t *testing.T) {
	dump := strings.Join([]string{
		"uuid: a",
		"description: " + strings.Repeat("x", maxLineSize+1),
		"",
		"uuid: b",
		"name: ok",
		"",
	}, "\n")
	path := writeFile(t, "packages.ldif", dump)
	logger, logs := observedLogger()

	entries, err := collect(t, NewLDIFLoader(path, nil, logger))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Package.UUID())

	skipped := logs.FilterMessage("Skipping malformed LDIF entry").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(1), skipped[0].ContextMap()["line"])
	assert.Contains(t, skipped[0].ContextMap()["error"], "exceeds")
}

func TestLDIFLoader_CRLFAndOptions(t *testing.T) {
	dump := "uuid: a\r\nnetworks;binary: n1\r\nname: win\r\n\r\n"
	path := writeFile(t, "packages.ldif", dump)

	entries, err := collect(t, NewLDIFLoader(path, nil, zap.NewNop()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "win", entries[0].Package[models.FieldName])
	// A single non-JSON networks value decodes to an empty list with a warning.
	assert.Equal(t, []string{}, entries[0].Package[models.FieldNetworks])
	assert.Len(t, entries[0].Warnings, 1)
}

func TestLDIFLoader_ThreeRepeats(t *testing.T) {
	dump := "uuid: a\nnetworks: n1\nnetworks: n2\nnetworks: n3\n"
	path := writeFile(t, "packages.ldif", dump)

	entries, err := collect(t, NewLDIFLoader(path, nil, zap.NewNop()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"n1", "n2", "n3"}, entries[0].Package[models.FieldNetworks])
}

func TestLDIFLoader_MissingFile(t *testing.T) {
	_, err := collect(t, NewLDIFLoader("/nonexistent/packages.ldif", nil, zap.NewNop()))
	require.Error(t, err)
	assert.True(t, IsSourceError(err))
}

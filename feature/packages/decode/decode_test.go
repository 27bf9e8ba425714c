package decode

import (
	"math"
	"testing"
	"time"

	"package-migrator/feature/packages/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldapEntry() models.RawRecord {
	return models.RawRecord{
		"dn":                  "uuid=7fc87f43-2def-4e6f-9f9f-000000000001, ou=packages, o=smartdc",
		"objectclass":         "sdcpackage",
		"controls":            []string{},
		"overprovision_cpu":   "2",
		"uuid":                "7fc87f43-2def-4e6f-9f9f-000000000001",
		"name":                "sdc_128",
		"version":             "1.0.0",
		"vcpus":               "1",
		"cpu_cap":             "100",
		"max_lwps":            "1000",
		"max_physical_memory": "128",
		"max_swap":            "256",
		"quota":               "10240",
		"zfs_io_priority":     "10",
		"fss":                 "25",
		"cpu_burst_ratio":     "0.5",
		"active":              "true",
		"default":             "false",
		"networks":            `["1e7bb0e1-25a9-43b6-bb19-f79ae9540b39"]`,
		"traits":              `{"ssd":true}`,
		"min_platform":        `{"7.0":"20130122T122401Z"}`,
		"created_at":          "2013-05-01T10:00:00.000Z",
	}
}

func TestDecode_LDAPEntry(t *testing.T) {
	pkg, warnings := Decode(ldapEntry())

	assert.Empty(t, warnings)
	assert.False(t, pkg.Has("dn"))
	assert.False(t, pkg.Has("objectclass"))
	assert.False(t, pkg.Has("controls"))
	assert.False(t, pkg.Has("overprovision_cpu"))

	assert.Equal(t, int64(1), pkg[models.FieldVCPUs])
	assert.Equal(t, int64(10240), pkg[models.FieldQuota])
	assert.Equal(t, int64(25), pkg[models.FieldFSS])
	assert.Equal(t, 0.5, pkg[models.FieldCPUBurstRatio])
	assert.Equal(t, true, pkg[models.FieldActive])
	assert.Equal(t, false, pkg[models.FieldDefault])
	assert.Equal(t, []string{"1e7bb0e1-25a9-43b6-bb19-f79ae9540b39"}, pkg[models.FieldNetworks])
	assert.Equal(t, map[string]any{"ssd": true}, pkg[models.FieldTraits])
	assert.Equal(t, map[string]any{"7.0": "20130122T122401Z"}, pkg[models.FieldMinPlatform])
	assert.Equal(t, "sdc_128", pkg[models.FieldName])

	created, ok := pkg[models.FieldCreatedAt].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2013, created.Year())
}

func TestDecode_Deterministic(t *testing.T) {
	raw := ldapEntry()
	raw["traits"] = "not-json{"
	raw["vcpus"] = "many"

	first, w1 := Decode(raw)
	second, w2 := Decode(raw)

	assert.Equal(t, first, second)
	assert.Equal(t, w1, w2)
}

func TestDecode_DoesNotMutateInput(t *testing.T) {
	raw := ldapEntry()
	before := ldapEntry()
	Decode(raw)
	assert.Equal(t, before, raw)
}

func TestDecode_NumericFailureLeavesFieldAbsent(t *testing.T) {
	pkg, warnings := Decode(models.RawRecord{"vcpus": "NaN", "ram_ratio": "lots"})

	assert.False(t, pkg.Has(models.FieldVCPUs))
	assert.False(t, pkg.Has(models.FieldRAMRatio))
	require.Len(t, warnings, 2)
	assert.Equal(t, models.FieldRAMRatio, warnings[0].Field)
	assert.Equal(t, models.FieldVCPUs, warnings[1].Field)
}

func TestDecode_OutOfRangeIntegerLeavesFieldAbsent(t *testing.T) {
	pkg, warnings := Decode(models.RawRecord{
		"quota":               "9223372036854775808",
		"max_physical_memory": float64(9.3e18),
		"max_swap":            "9223372036854775807",
	})

	assert.False(t, pkg.Has(models.FieldQuota))
	assert.False(t, pkg.Has(models.FieldMaxPhysicalMemory))
	assert.Equal(t, int64(math.MaxInt64), pkg[models.FieldMaxSwap])
	require.Len(t, warnings, 2)
	assert.Equal(t, models.FieldMaxPhysicalMemory, warnings[0].Field)
	assert.Equal(t, models.FieldQuota, warnings[1].Field)
	assert.Equal(t, `quota: cannot coerce "9223372036854775808" to int`, warnings[1].String())
}

func TestDecode_WarningNamesKind(t *testing.T) {
	_, warnings := Decode(models.RawRecord{
		"ram_ratio":  "lots",
		"created_at": "yesterday",
		"traits":     "not-json{",
	})

	require.Len(t, warnings, 3)
	assert.Equal(t, `cannot coerce "yesterday" to date`, warnings[0].Message)
	assert.Equal(t, `cannot coerce "lots" to float`, warnings[1].Message)
	assert.Equal(t, "cannot coerce to object, replaced with empty object", warnings[2].Message)
}

func TestDecode_JSONNativeNumbers(t *testing.T) {
	pkg, warnings := Decode(models.RawRecord{"max_swap": float64(512), "ram_ratio": float64(1.5)})

	assert.Empty(t, warnings)
	assert.Equal(t, int64(512), pkg[models.FieldMaxSwap])
	assert.Equal(t, 1.5, pkg[models.FieldRAMRatio])
}

func TestDecode_Booleans(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"StringTrue", "true", true},
		{"BoolTrue", true, true},
		{"StringFalse", "false", false},
		{"Other", "yes", false},
		{"BoolFalse", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, _ := Decode(models.RawRecord{"active": tt.in})
			assert.Equal(t, tt.want, pkg[models.FieldActive])
		})
	}

	t.Run("AbsentStaysAbsent", func(t *testing.T) {
		pkg, _ := Decode(models.RawRecord{"name": "x"})
		assert.False(t, pkg.Has(models.FieldActive))
		assert.False(t, pkg.Has(models.FieldDefault))
	})
}

func TestDecode_Networks(t *testing.T) {
	t.Run("RepeatedAttribute", func(t *testing.T) {
		pkg, warnings := Decode(models.RawRecord{"networks": []string{"n1", "n2"}})
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"n1", "n2"}, pkg[models.FieldNetworks])
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		pkg, warnings := Decode(models.RawRecord{"networks": "[broken"})
		assert.Equal(t, []string{}, pkg[models.FieldNetworks])
		require.Len(t, warnings, 1)
		assert.Equal(t, models.FieldNetworks, warnings[0].Field)
	})

	t.Run("NotAList", func(t *testing.T) {
		pkg, warnings := Decode(models.RawRecord{"networks": `{"a":1}`})
		assert.Equal(t, []string{}, pkg[models.FieldNetworks])
		assert.Len(t, warnings, 1)
	})

	t.Run("JSONNativeList", func(t *testing.T) {
		pkg, warnings := Decode(models.RawRecord{"networks": []any{"a", "b"}})
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"a", "b"}, pkg[models.FieldNetworks])
	})
}

func TestDecode_LegacyOwner(t *testing.T) {
	t.Run("PlainString", func(t *testing.T) {
		pkg, _ := Decode(models.RawRecord{"owner_uuid": "abc"})
		assert.Equal(t, []string{"abc"}, pkg[models.FieldOwnerUUIDs])
		assert.False(t, pkg.Has(models.LegacyFieldOwnerUUID))
	})

	t.Run("JSONList", func(t *testing.T) {
		pkg, _ := Decode(models.RawRecord{"owner_uuid": `["a","b"]`})
		assert.Equal(t, []string{"a", "b"}, pkg[models.FieldOwnerUUIDs])
		assert.False(t, pkg.Has(models.LegacyFieldOwnerUUID))
	})

	t.Run("List", func(t *testing.T) {
		pkg, _ := Decode(models.RawRecord{"owner_uuid": []string{"a", "b"}})
		assert.Equal(t, []string{"a", "b"}, pkg[models.FieldOwnerUUIDs])
		assert.False(t, pkg.Has(models.LegacyFieldOwnerUUID))
	})

	t.Run("PluralAlreadyPresent", func(t *testing.T) {
		pkg, _ := Decode(models.RawRecord{
			"owner_uuid":  "legacy",
			"owner_uuids": []string{"x", "y"},
		})
		assert.Equal(t, []string{"x", "y"}, pkg[models.FieldOwnerUUIDs])
	})
}

func TestDecode_Objects(t *testing.T) {
	pkg, warnings := Decode(models.RawRecord{"traits": "not-json{", "min_platform": `["7.0"]`})

	assert.Equal(t, map[string]any{}, pkg[models.FieldTraits])
	assert.Equal(t, map[string]any{}, pkg[models.FieldMinPlatform])
	require.Len(t, warnings, 2)
	assert.Equal(t, models.FieldMinPlatform, warnings[0].Field)
	assert.Equal(t, models.FieldTraits, warnings[1].Field)
}

func TestDecode_BinaryValue(t *testing.T) {
	pkg, _ := Decode(models.RawRecord{"description": []byte("small package")})
	assert.Equal(t, "small package", pkg[models.FieldDescription])
}

func TestDecode_BadDate(t *testing.T) {
	pkg, warnings := Decode(models.RawRecord{"updated_at": "last tuesday"})
	assert.False(t, pkg.Has(models.FieldUpdatedAt))
	assert.Len(t, warnings, 1)
}

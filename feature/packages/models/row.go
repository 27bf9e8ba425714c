package models

import (
	"fmt"
	"time"
)

// PackageRow is the persisted form of a package in the target store.
// Optional scalars are pointers so absence survives a round trip.
type PackageRow struct {
	UUID              string         `gorm:"column:uuid;primaryKey;size:36"`
	Name              string         `gorm:"column:name;size:255;index"`
	Version           string         `gorm:"column:version;size:64;index"`
	VCPUs             *int64         `gorm:"column:vcpus"`
	CPUCap            *int64         `gorm:"column:cpu_cap"`
	MaxLWPs           *int64         `gorm:"column:max_lwps"`
	MaxPhysicalMemory *int64         `gorm:"column:max_physical_memory"`
	MaxSwap           *int64         `gorm:"column:max_swap"`
	Quota             *int64         `gorm:"column:quota"`
	ZFSIOPriority     *int64         `gorm:"column:zfs_io_priority"`
	FSS               *int64         `gorm:"column:fss"`
	CPUBurstRatio     *float64       `gorm:"column:cpu_burst_ratio"`
	RAMRatio          *float64       `gorm:"column:ram_ratio"`
	Active            *bool          `gorm:"column:active;index"`
	IsDefault         *bool          `gorm:"column:is_default"`
	Group             *string        `gorm:"column:group_name;size:255"`
	CommonName        *string        `gorm:"column:common_name;size:255"`
	Description       *string        `gorm:"column:description;type:text"`
	BillingTag        *string        `gorm:"column:billing_tag;size:255;index"`
	Parent            *string        `gorm:"column:parent;size:255"`
	OS                *string        `gorm:"column:os;size:64"`
	AllocServerSpread *string        `gorm:"column:alloc_server_spread;size:64"`
	OwnerUUIDs        []string       `gorm:"column:owner_uuids;serializer:json;type:text"`
	Networks          []string       `gorm:"column:networks;serializer:json;type:text"`
	MinPlatform       map[string]any `gorm:"column:min_platform;serializer:json;type:text"`
	Traits            map[string]any `gorm:"column:traits;serializer:json;type:text"`
	CreatedAt         *time.Time     `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt         *time.Time     `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName pins the target table name.
func (PackageRow) TableName() string {
	return "packages"
}

// ColumnFor maps a canonical field name to its column in the packages table.
// Most fields share their name; reserved SQL words are renamed.
func ColumnFor(field string) string {
	switch field {
	case FieldDefault:
		return "is_default"
	case FieldGroup:
		return "group_name"
	default:
		return field
	}
}

// ToRow converts a validated package into its persisted form. It fails when a
// present field carries a value of an unexpected Go type, which means the
// package skipped validation.
func ToRow(p Package) (*PackageRow, error) {
	row := &PackageRow{}
	var err error

	if row.UUID, err = stringField(p, FieldUUID); err != nil {
		return nil, err
	}
	if row.Name, err = stringField(p, FieldName); err != nil {
		return nil, err
	}
	if row.Version, err = stringField(p, FieldVersion); err != nil {
		return nil, err
	}

	ints := map[string]**int64{
		FieldVCPUs:             &row.VCPUs,
		FieldCPUCap:            &row.CPUCap,
		FieldMaxLWPs:           &row.MaxLWPs,
		FieldMaxPhysicalMemory: &row.MaxPhysicalMemory,
		FieldMaxSwap:           &row.MaxSwap,
		FieldQuota:             &row.Quota,
		FieldZFSIOPriority:     &row.ZFSIOPriority,
		FieldFSS:               &row.FSS,
	}
	for field, dst := range ints {
		v, ok := p[field]
		if !ok {
			continue
		}
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("field %s: expected int64, got %T", field, v)
		}
		*dst = &n
	}

	floats := map[string]**float64{
		FieldCPUBurstRatio: &row.CPUBurstRatio,
		FieldRAMRatio:      &row.RAMRatio,
	}
	for field, dst := range floats {
		v, ok := p[field]
		if !ok {
			continue
		}
		var f float64
		switch tv := v.(type) {
		case float64:
			f = tv
		case int64:
			f = float64(tv)
		default:
			return nil, fmt.Errorf("field %s: expected float64, got %T", field, v)
		}
		*dst = &f
	}

	bools := map[string]**bool{
		FieldActive:  &row.Active,
		FieldDefault: &row.IsDefault,
	}
	for field, dst := range bools {
		v, ok := p[field]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s: expected bool, got %T", field, v)
		}
		*dst = &b
	}

	strs := map[string]**string{
		FieldGroup:             &row.Group,
		FieldCommonName:        &row.CommonName,
		FieldDescription:       &row.Description,
		FieldBillingTag:        &row.BillingTag,
		FieldParent:            &row.Parent,
		FieldOS:                &row.OS,
		FieldAllocServerSpread: &row.AllocServerSpread,
	}
	for field, dst := range strs {
		v, ok := p[field]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: expected string, got %T", field, v)
		}
		*dst = &s
	}

	lists := map[string]*[]string{
		FieldOwnerUUIDs: &row.OwnerUUIDs,
		FieldNetworks:   &row.Networks,
	}
	for field, dst := range lists {
		v, ok := p[field]
		if !ok {
			continue
		}
		l, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("field %s: expected []string, got %T", field, v)
		}
		*dst = append([]string{}, l...)
	}

	objects := map[string]*map[string]any{
		FieldMinPlatform: &row.MinPlatform,
		FieldTraits:      &row.Traits,
	}
	for field, dst := range objects {
		v, ok := p[field]
		if !ok {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s: expected object, got %T", field, v)
		}
		*dst = m
	}

	times := map[string]**time.Time{
		FieldCreatedAt: &row.CreatedAt,
		FieldUpdatedAt: &row.UpdatedAt,
	}
	for field, dst := range times {
		v, ok := p[field]
		if !ok {
			continue
		}
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("field %s: expected time, got %T", field, v)
		}
		*dst = &t
	}

	return row, nil
}

func stringField(p Package, field string) (string, error) {
	v, ok := p[field]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %s: expected string, got %T", field, v)
	}
	return s, nil
}

var persisted = map[string]struct{}{
	FieldUUID: {}, FieldName: {}, FieldVersion: {}, FieldVCPUs: {}, FieldCPUCap: {},
	FieldMaxLWPs: {}, FieldMaxPhysicalMemory: {}, FieldMaxSwap: {}, FieldQuota: {},
	FieldZFSIOPriority: {}, FieldFSS: {}, FieldCPUBurstRatio: {}, FieldRAMRatio: {},
	FieldActive: {}, FieldDefault: {}, FieldGroup: {}, FieldCommonName: {},
	FieldDescription: {}, FieldBillingTag: {}, FieldParent: {}, FieldOS: {},
	FieldAllocServerSpread: {}, FieldOwnerUUIDs: {}, FieldNetworks: {},
	FieldMinPlatform: {}, FieldTraits: {}, FieldCreatedAt: {}, FieldUpdatedAt: {},
}

// IsPersisted reports whether field has a column in the packages table.
func IsPersisted(field string) bool {
	_, ok := persisted[field]
	return ok
}

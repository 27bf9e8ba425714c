package models

import "sort"

// Canonical field names of a package definition.
const (
	FieldUUID              = "uuid"
	FieldName              = "name"
	FieldVersion           = "version"
	FieldVCPUs             = "vcpus"
	FieldCPUCap            = "cpu_cap"
	FieldMaxLWPs           = "max_lwps"
	FieldMaxPhysicalMemory = "max_physical_memory"
	FieldMaxSwap           = "max_swap"
	FieldQuota             = "quota"
	FieldZFSIOPriority     = "zfs_io_priority"
	FieldFSS               = "fss"
	FieldCPUBurstRatio     = "cpu_burst_ratio"
	FieldRAMRatio          = "ram_ratio"
	FieldActive            = "active"
	FieldDefault           = "default"
	FieldGroup             = "group"
	FieldCommonName        = "common_name"
	FieldDescription       = "description"
	FieldBillingTag        = "billing_tag"
	FieldParent            = "parent"
	FieldOS                = "os"
	FieldAllocServerSpread = "alloc_server_spread"
	FieldOwnerUUIDs        = "owner_uuids"
	FieldNetworks          = "networks"
	FieldMinPlatform       = "min_platform"
	FieldTraits            = "traits"
	FieldCreatedAt         = "created_at"
	FieldUpdatedAt         = "updated_at"

	// LegacyFieldOwnerUUID is the singular owner attribute replaced by owner_uuids.
	LegacyFieldOwnerUUID = "owner_uuid"
)

// RawRecord is one entry as read from a legacy source, before decode.
// Values are a string, a []string (repeated attribute), a []byte (binary
// attribute) or, for JSON sources, any JSON-native value.
type RawRecord map[string]any

// Package is the canonical decoded form of a package definition.
type Package map[string]any

// UUID returns the reconciliation key, or "" when absent or not a string.
func (p Package) UUID() string {
	s, _ := p[FieldUUID].(string)
	return s
}

// Has reports whether field is present.
func (p Package) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Fields returns the present field names in sorted order.
func (p Package) Fields() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

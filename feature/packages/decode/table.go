package decode

import "package-migrator/feature/packages/models"

// Kind selects how a field is coerced.
type Kind int

const (
	// KindInt parses an integer; failure leaves the field absent.
	KindInt Kind = iota + 1
	// KindFloat parses a float; failure leaves the field absent.
	KindFloat
	// KindBool is true iff the value is "true" or true.
	KindBool
	// KindJSONList parses a JSON list of strings; failure yields an empty list.
	KindJSONList
	// KindOwnerList parses a JSON list of strings and falls back to a
	// one-element list holding the raw string.
	KindOwnerList
	// KindObject parses a JSON object; failure yields an empty object.
	KindObject
	// KindDate parses RFC 3339 or epoch milliseconds; failure leaves the field absent.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindJSONList:
		return "json-list"
	case KindOwnerList:
		return "owner-list"
	case KindObject:
		return "object"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Table maps each coerced field to its kind. Fields not listed are strings
// and pass through unchanged.
var Table = map[string]Kind{
	models.FieldVCPUs:             KindInt,
	models.FieldCPUCap:            KindInt,
	models.FieldMaxLWPs:           KindInt,
	models.FieldMaxPhysicalMemory: KindInt,
	models.FieldMaxSwap:           KindInt,
	models.FieldQuota:             KindInt,
	models.FieldZFSIOPriority:     KindInt,
	models.FieldFSS:               KindInt,
	models.FieldCPUBurstRatio:     KindFloat,
	models.FieldRAMRatio:          KindFloat,
	models.FieldActive:            KindBool,
	models.FieldDefault:           KindBool,
	models.FieldNetworks:          KindJSONList,
	models.FieldOwnerUUIDs:        KindOwnerList,
	models.FieldTraits:            KindObject,
	models.FieldMinPlatform:       KindObject,
	models.FieldCreatedAt:         KindDate,
	models.FieldUpdatedAt:         KindDate,
}

// Dropped lists directory bookkeeping and retired attributes removed before
// coercion. Matching is case-insensitive.
var Dropped = []string{
	"dn",
	"controls",
	"objectclass",
	"_owner",
	"_parent",
	"_replicated",
	"overprovision_cpu",
	"overprovision_memory",
	"overprovision_storage",
	"overprovision_network",
	"overprovision_io",
}

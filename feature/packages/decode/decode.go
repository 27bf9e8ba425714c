package decode

import (
	"fmt"
	"sort"
	"strings"

	"package-migrator/core/utils"
	"package-migrator/feature/packages/models"

	gojson "github.com/goccy/go-json"
)

// Warning describes a field that could not be coerced cleanly.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

var dropped = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Dropped))
	for _, name := range Dropped {
		m[name] = struct{}{}
	}
	return m
}()

// Decode normalizes raw into a canonical package. It never fails; problems
// are reported as warnings in field-name order. raw is not modified.
func Decode(raw models.RawRecord) (models.Package, []Warning) {
	pkg := make(models.Package, len(raw))
	for name, v := range raw {
		if _, drop := dropped[strings.ToLower(name)]; drop {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		if l, ok := v.([]string); ok {
			v = append([]string{}, l...)
		}
		pkg[name] = v
	}

	var warnings []Warning
	warn := func(field, format string, args ...any) {
		warnings = append(warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	migrateOwner(pkg, warn)

	names := make([]string, 0, len(pkg))
	for name := range pkg {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, ok := Table[name]
		if !ok {
			continue
		}
		coerce(pkg, name, kind, warn)
	}

	return pkg, warnings
}

// migrateOwner converts the legacy singular owner_uuid into owner_uuids. It
// does nothing when owner_uuids is already present.
func migrateOwner(pkg models.Package, warn func(string, string, ...any)) {
	legacy, ok := pkg[models.LegacyFieldOwnerUUID]
	if !ok || pkg.Has(models.FieldOwnerUUIDs) {
		return
	}
	delete(pkg, models.LegacyFieldOwnerUUID)

	switch v := legacy.(type) {
	case []string:
		pkg[models.FieldOwnerUUIDs] = v
	case []any:
		if l, ok := utils.ToStringSlice(v); ok {
			pkg[models.FieldOwnerUUIDs] = l
			return
		}
		warn(models.FieldOwnerUUIDs, "legacy owner_uuid list holds non-string values")
		pkg[models.FieldOwnerUUIDs] = []string{}
	case string:
		pkg[models.FieldOwnerUUIDs] = ownerList(v)
	default:
		pkg[models.FieldOwnerUUIDs] = []string{utils.ToString(v)}
	}
}

func ownerList(s string) []string {
	var decoded any
	if err := gojson.Unmarshal([]byte(s), &decoded); err == nil {
		if l, ok := utils.ToStringSlice(decoded); ok {
			return l
		}
	}
	return []string{s}
}

func coerce(pkg models.Package, name string, kind Kind, warn func(string, string, ...any)) {
	v := pkg[name]

	switch kind {
	case KindInt:
		n, ok := utils.ParseInt(v)
		if !ok {
			delete(pkg, name)
			warn(name, "cannot coerce %q to %s", utils.ToString(v), kind)
			return
		}
		pkg[name] = n

	case KindFloat:
		f, ok := utils.ParseFloat(v)
		if !ok {
			delete(pkg, name)
			warn(name, "cannot coerce %q to %s", utils.ToString(v), kind)
			return
		}
		pkg[name] = f

	case KindBool:
		pkg[name] = utils.ToBool(v)

	case KindJSONList:
		if l, ok := utils.ToStringSlice(v); ok {
			pkg[name] = l
			return
		}
		s, isStr := v.(string)
		if isStr {
			var decoded any
			if err := gojson.Unmarshal([]byte(s), &decoded); err == nil {
				if l, ok := utils.ToStringSlice(decoded); ok {
					pkg[name] = l
					return
				}
			}
		}
		pkg[name] = []string{}
		warn(name, "cannot coerce to %s, replaced with empty list", kind)

	case KindOwnerList:
		if l, ok := utils.ToStringSlice(v); ok {
			pkg[name] = l
			return
		}
		if s, isStr := v.(string); isStr {
			pkg[name] = ownerList(s)
			return
		}
		pkg[name] = []string{}
		warn(name, "cannot coerce to %s, replaced with empty list", kind)

	case KindObject:
		if m, ok := v.(map[string]any); ok {
			pkg[name] = m
			return
		}
		if s, isStr := v.(string); isStr {
			var decoded any
			if err := gojson.Unmarshal([]byte(s), &decoded); err == nil {
				if m, ok := decoded.(map[string]any); ok {
					pkg[name] = m
					return
				}
			}
		}
		pkg[name] = map[string]any{}
		warn(name, "cannot coerce to %s, replaced with empty object", kind)

	case KindDate:
		t, ok := utils.ParseTime(v)
		if !ok {
			delete(pkg, name)
			warn(name, "cannot coerce %q to %s", utils.ToString(v), kind)
			return
		}
		pkg[name] = t
	}
}

// Package schema loads the declarative package field schema and validates
// decoded packages against it.
//
// The schema document is YAML:
//
//	fields:
//	  uuid:
//	    type: uuid
//	    required: true
//	    immutable: true
//	    unique: true
//	  networks:
//	    type: "[uuid]"
//
// Supported types are uuid, string, number (integer), double, boolean, date,
// object and [uuid] (list of UUIDs). The schema is read once at startup and is
// never mutated afterwards. Validation is pure shape checking; uniqueness is
// left to the target store.
package schema

// Package identity derives stable pseudonymous identifiers from
// provider-supplied natural keys.
//
// Derivation uses version 5 (SHA-1, name-based) UUIDs: the same natural
// key always yields the same identifier, within a process and across
// processes, and the key cannot be recovered from the identifier.
package identity

import "github.com/google/uuid"

// Namespace UUIDs for the two identifier kinds. Fixed forever: changing
// either one changes every derived identifier.
var (
	// RecordNamespace scopes identifiers derived from a record's natural key.
	RecordNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	// AuthorNamespace scopes identifiers derived from a user's natural key,
	// so a record key and a user key that happen to collide as strings
	// still map to distinct identifiers.
	AuthorNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
)

// Derive returns the stable identifier for naturalKey within the given
// namespace, formatted as a standard UUID string.
func Derive(namespace uuid.UUID, naturalKey string) string {
	return uuid.NewSHA1(namespace, []byte(naturalKey)).String()
}

// RecordID derives the identifier used as a canonical record's own ID.
func RecordID(naturalKey string) string {
	return Derive(RecordNamespace, naturalKey)
}

// AuthorID derives the pseudonymized author reference for a user key.
func AuthorID(naturalKey string) string {
	return Derive(AuthorNamespace, naturalKey)
}

// Package cursor provides a source-agnostic engine for following
// cursor-paginated endpoints.
//
// Cursor pagination is inherently sequential: each request depends on the
// continuation token returned by the previous one, so there is no
// parallel fan-out here. The engine is parameterized by a Strategy that
// knows how to pull records and the next cursor out of a response page
// and how to merge a held cursor back into the outgoing request; field
// paths are never hard-coded in the engine itself.
package cursor

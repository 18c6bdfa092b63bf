// Package matching decides whether a live request matches a recorded
// request pattern.
//
// Path, method and the raw query string must be equal. Bodies use a
// structural inclusion test: every key present in a JSON pattern object must
// be present in the actual object with a recursively matching value, while
// extra keys in the actual value are ignored. Arrays and scalars must be
// equal. Text and Bytes bodies must be equal, and bodies of different kinds
// never match. An absent pattern body matches anything.
//
// Key functions:
//
//   - Includes: inclusion test over decoded JSON values
//   - MatchBody / MatchRequest: the replay matching rule
//   - Explain: field-by-field breakdown used to report near misses
package matching

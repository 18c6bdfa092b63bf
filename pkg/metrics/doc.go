// Package metrics exposes Prometheus collectors for dispatch outcomes and
// gateway upstream calls.
//
// # Metrics
//
//   - mockgate_dispatch_total{outcome, kind}: dispatches by outcome
//     ("matched", "not_found") and the kind of the answering handler
//     ("none" when nothing matched)
//   - mockgate_dispatch_duration_seconds{outcome}: time spent walking the chain
//   - mockgate_upstream_duration_seconds{result}: gateway round trips by
//     result ("ok", "status", "error", "refused")
//   - mockgate_captures_total: exchanges appended to a gateway store
//
// A nil *Metrics is valid and records nothing.
package metrics

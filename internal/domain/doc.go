// Package domain models the canonical place candidate shared by every search
// provider, along with the pure functions that score and position it.
//
// # Sources
//
// Five upstream providers feed the aggregator. Each record carries a [Source]
// tag, and the tag doubles as the last-resort ranking tie-break:
//
//	google_autocomplete  < google_textsearch < google_nearby
//	  < olamaps < nominatim < anything unknown
//
// # Confidence
//
// Providers seed a base confidence (0.0–1.0) and add 0.05 for each structured
// signal present: a formatted address, a named locality, a named city. The
// sum is capped at 1.0. When the locale check cannot confirm the record lies
// in the target country the score is lowered by 0.2 and capped at 0.5:
//
//	base 0.90, all signals, in country     -> 1.00
//	base 0.90, no signals, not confirmed   -> 0.50
//	base 0.60, no signals, not confirmed   -> 0.40
//
// Unverifiable locale never discards a record; it only softens its score.
//
// # Identity
//
// Every record leaving a provider has a non-empty PlaceID. When the upstream
// gives none, [Place.EnsureID] synthesizes "{source}_{unix_millis}_{random}"
// and marks the record so deduplication falls back to name plus coordinates.
//
// # Distance
//
// Distance is kilometres from the caller's origin (haversine, two decimals).
// It is set once, right after a provider's list arrives, and only when the
// caller supplied both coordinates and the record has its own. It is a
// ranking input only and never leaves the service.
package domain

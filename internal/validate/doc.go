// Package validate checks thermostat payload fields against declared rules and
// replaces rejected values with display sentinels.
//
// # Rules
//
// A numeric rule accepts any finite number and rejects non-numbers with
// "Error". A finite value outside [Min, Max] becomes "N/A". Values are never
// clamped. An enum rule compares case-insensitively and yields the upper-cased
// canonical value. Fields without a rule pass through untouched; a ruled field
// missing from the payload is treated as a wrong type.
//
// # Results
//
// Validate never fails. It returns the display fields plus one
// *ValidationError per rejection, and logs each rejection at WARN. Callers use
// Result.HasErrors to decide whether derived metrics may be computed from the
// raw payload.
package validate

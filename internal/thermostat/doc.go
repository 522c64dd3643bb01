// Package thermostat provides an HTTP client for the thermostat dashboard API.
//
// # Endpoints
//
//   - GET /api/estado: current readings wrapped in {success, data, timestamp, from_cache}
//   - GET /api/historial?limite=N: the last N temperature records
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation; the retry layer cancels abandoned attempts
//   - Set Accept: application/json
//   - Include User-Agent: thermo/<version> and a fresh X-Request-ID
//
// The client never retries on its own. See package retry.
//
// # Error Handling
//
// Failures are split into two types:
//
//   - *TransportError: connection failures, HTTP error statuses without a
//     failure envelope, and malformed JSON
//   - *ApplicationError: the backend answered with success=false, including
//     the 503 it sends when neither the device nor its cache has data
//
// Example error messages:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/estado returned status 502"
//   - "api /api/estado reported failure (status 503): device unreachable"
//
// # Timestamps
//
// The backend serializes naive ISO-8601 timestamps such as
// "2026-03-01T09:00:00.123456". They are parsed with relvacode/iso8601 and
// treated as UTC.
package thermostat

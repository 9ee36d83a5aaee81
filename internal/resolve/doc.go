// Package resolve implements the resolution engine: it turns manifest
// references into downloadable file descriptors by querying the hosting
// API, classifying everything it cannot resolve as blocked.
//
// Lookups are independent and idempotent, so they run under the same
// bounded-pool discipline as downloads. No filesystem writes happen
// here.
package resolve

// Package exa provides a minimal client for the Exa search API.
//
// The client covers the single POST /search endpoint this server needs,
// authenticated via the x-api-key header. Responses are decoded into
// SearchResponse; any non-2xx status is surfaced as *errors.StatusError.
package exa

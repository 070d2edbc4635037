// Package httpapi serves the published skills snapshot and its precomputed
// index over HTTP. Responses carry a strong ETag and a 24 hour
// Cache-Control so clients and CDNs revalidate cheaply.
package httpapi

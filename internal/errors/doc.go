// Package apperrors defines the error types shared by squash front ends
// and maps them to process exit codes. A ConfigError is raised before any
// request is made, a ValidationError when the selected file is rejected
// locally, and a TransportError or TimeoutError when the compression
// service cannot be reached in time. Errors carrying a cause implement
// Unwrap.
package apperrors

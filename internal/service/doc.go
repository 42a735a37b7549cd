// Package service is the HTTP client for the remote compression service.
//
// It speaks three endpoints: GET /api/formats, a multipart POST to
// /api/compress and GET on the download link returned by a successful
// compression. Every failed exchange is reported as an
// apperrors.TransportError; callers decide how much of it users see.
package service

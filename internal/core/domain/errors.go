package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUnsupportedFormat indicates the uploaded file is neither DXF nor DWG
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge indicates the upload exceeded the configured size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrBlobMissing indicates the metadata exists but the stored bytes do not
	ErrBlobMissing = errors.New("file data not found")

	// ErrConversionUnavailable indicates a DWG file was supplied but no converter is installed
	ErrConversionUnavailable = errors.New("dwg conversion unavailable")

	// ErrConversionFailed indicates the converter ran but produced no DXF
	ErrConversionFailed = errors.New("dwg conversion failed")

	// ErrUnparseable indicates the parser could not read the drawing
	ErrUnparseable = errors.New("failed to parse drawing")

	// ErrNoModel indicates there is no drawing to analyse
	ErrNoModel = errors.New("no drawing model")
)

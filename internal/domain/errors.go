package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentNotProcessed = errors.New("document has not been processed yet")
	ErrDocumentEmpty        = errors.New("document has no page text")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidRange         = errors.New("coordinate outside valid lat/long bounds")
	ErrMissingCoordinates   = errors.New("coordinate mention requires resolved coordinates")
	ErrInvalidConfidence    = errors.New("confidence must be within [0,1]")
	ErrGazetteerEmpty       = errors.New("gazetteer has no entries")
	ErrInvalidSearchArea    = errors.New("invalid search area")
	ErrExportFailed         = errors.New("export generation failed")
	ErrUploadFailed         = errors.New("archive upload to storage failed")
)

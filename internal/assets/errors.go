package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrTemplateParse indicates an embedded template is malformed.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrPageRender indicates the page template could not be executed.
	ErrPageRender = errors.New("page rendering failed")
)

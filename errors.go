package mdexec

import (
	"errors"

	"github.com/alnah/go-mdexec/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrDocumentBuild  = errors.New("failed to build output document")

	// Interpreter errors. These are written into the output container,
	// not returned from Render.
	ErrEmptyInterpreter = errors.New("interpreter path cannot be empty")
	ErrSpawn            = errors.New("failed to start interpreter")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)

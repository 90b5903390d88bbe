// Package assets provides the embedded page template and stylesheets used to
// wrap rendered markdown into a standalone HTML document.
//
// Assets are organized by type:
//
//	styles/
//	├── page.css      # base layout, print rules
//	└── output.css    # script output containers
//	templates/
//	└── page.html     # html/template document shell
//
// Asset names are validated to prevent path traversal.
package assets

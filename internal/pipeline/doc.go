// Package pipeline implements the Markdown-to-HTML stages that run before
// script blocks are executed:
//   - Markdown preprocessing (line endings, byte order mark)
//   - Markdown to HTML conversion via Goldmark
//   - Replacement of script fences by empty placeholders, with their sources
//     collected in document order
//   - Rewriting of relative image and link paths to file:// URLs
//
// Placeholders are filled later by the root mdexec package, which owns the
// execution of each block.
package pipeline

// Package mdexec renders Markdown documents whose script code blocks can run
// as external interpreter processes, with their output streamed back into the
// rendered document.
//
// # Quick Start
//
// Create a renderer and render markdown:
//
//	r := mdexec.NewRenderer()
//
//	result, err := r.Render(ctx, mdexec.Input{
//	    Markdown: "```python\n# run\nprint('hello')\n```",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", []byte(result.HTML), 0644)
//
// # Execution Marker
//
// A fenced block tagged with the script language (python by default) is
// executed only when its trimmed text starts with the literal marker "# run".
// Every other block is displayed and never executed:
//
//	```python
//	# run
//	print("executed")
//	```
//
// The block runs as "<interpreter> -u -c <source>". Standard output is
// appended to a <code> element inside a <pre class="python-output"> container,
// standard error to a <span class="python-error-output"> element prefixed with
// "Error: ". Failures to start the interpreter are written inline as
// "An error occurred: ..." and never returned to the caller.
//
// # Settings
//
// Settings are read on every block render through a SettingsProvider:
//
//	r := mdexec.NewRenderer(
//	    mdexec.WithSettings(mdexec.StaticSettings{
//	        InterpreterPath:     "python3",
//	        ShowSourceInPreview: true,
//	        ShowExitStatus:      true,
//	    }),
//	)
//
// # Components
//
// BlockProcessor and ProcessRunner can be used without the Renderer. They
// depend only on the Element sink, a SettingsProvider, an optional
// HighlightProvider and a Spawner, so any document model can host them.
//
// # Cancellation
//
// Runs have no timeout. Canceling the context passed to Render or
// BlockProcessor.Process kills the interpreter process group.
package mdexec

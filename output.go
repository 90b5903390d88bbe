package mdexec

import (
	"fmt"
	"strings"
)

// Output text prefixes.
const (
	stderrPrefix  = "Error: "
	failurePrefix = "\nAn error occurred: "
)

// outputWriter appends a run's output to its container. Consecutive chunks
// of the same stream share one element; switching streams opens a new one, so
// stdout stays plain and stderr stays error-styled whatever the ordering.
type outputWriter struct {
	area Element
	lang Language

	current     Element
	currentFrom stream
	errorStyled bool
}

func newOutputWriter(area Element, lang Language) *outputWriter {
	return &outputWriter{area: area, lang: lang}
}

// stdout appends a standard output chunk to a <code> element.
func (w *outputWriter) stdout(text string) {
	if w.current == nil || w.currentFrom != streamStdout {
		w.open("code", "", streamStdout)
	}
	w.current.AppendText(text)
}

// stderr appends a standard error chunk, prefixed, to an error-styled element.
func (w *outputWriter) stderr(text string) {
	if w.current == nil || w.currentFrom != streamStderr {
		w.open("span", w.lang.ErrorClass(), streamStderr)
	}
	w.current.AppendText(stderrPrefix + text)
}

// exitStatus appends the exit code line to the last element, creating a plain
// one if the run printed nothing.
func (w *outputWriter) exitStatus(code int) {
	if w.current == nil {
		w.open("span", "", 0)
	}
	w.current.AppendText(fmt.Sprintf("\n%s exited with code: %d", w.lang.Label, code))
}

// failure appends the error line to an error-styled element, reusing the last
// one when it is already error-styled.
func (w *outputWriter) failure(err error) {
	if w.current == nil || !w.errorStyled {
		w.open("span", w.lang.ErrorClass(), 0)
	}
	w.current.AppendText(failurePrefix + describeError(err))
}

func (w *outputWriter) open(tag, class string, from stream) {
	w.current = w.area.CreateChild(tag, class)
	w.currentFrom = from
	w.errorStyled = class == w.lang.ErrorClass()
}

// describeError returns a single-line description of err.
func describeError(err error) string {
	return strings.TrimSpace(err.Error())
}

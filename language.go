package mdexec

// Language identifies the fenced-block language that is processed and the
// label used in exit status lines.
type Language struct {
	Name  string // fence info string, e.g. "python"
	Label string // display name, e.g. "Python"
}

// Python is the default script language.
var Python = Language{Name: "python", Label: "Python"}

// SourceClass is the class of the <code> element holding the block source.
func (l Language) SourceClass() string { return "language-" + l.Name }

// OutputClass is the class of the <pre> output container.
func (l Language) OutputClass() string { return l.Name + "-output" }

// ErrorClass is the class of error-styled output elements.
func (l Language) ErrorClass() string { return l.Name + "-error-output" }

// BlockClass is the class of the placeholder element hosting a block.
func (l Language) BlockClass() string { return "block-language-" + l.Name }

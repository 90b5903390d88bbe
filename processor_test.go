package mdexec

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHasRunMarker - Execution Marker Detection
// ---------------------------------------------------------------------------

func TestHasRunMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"marker alone", "# run", true},
		{"marker then code", "# run\nprint(1)", true},
		{"leading blank lines", "\n\n  # run\nprint(1)", true},
		{"leading tabs", "\t# run", true},
		{"leading byte order mark", "\uFEFF# run", true},
		{"marker with suffix", "# running total", true},
		{"no marker", "print(1)", false},
		{"marker after code", "print(1)\n# run", false},
		{"marker without space", "#run", false},
		{"uppercase marker", "# RUN", false},
		{"empty source", "", false},
		{"whitespace only", " \n\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HasRunMarker(tt.source); got != tt.want {
				t.Errorf("HasRunMarker(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBlockProcessor_Process - Source and Output Rendering
// ---------------------------------------------------------------------------

func TestBlockProcessor_Process(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		showSource bool
		wantRun    bool
		wantTags   []string
	}{
		{
			name:       "marked block shows source and output",
			source:     "# run\nprint(1)",
			showSource: true,
			wantRun:    true,
			wantTags:   []string{"pre", "pre"},
		},
		{
			name:       "marked block without source shows output only",
			source:     "# run\nprint(1)",
			showSource: false,
			wantRun:    true,
			wantTags:   []string{"pre"},
		},
		{
			name:       "unmarked block shows source only",
			source:     "print(1)",
			showSource: true,
			wantTags:   []string{"pre"},
		},
		{
			name:       "unmarked block without source stays empty",
			source:     "print(1)",
			showSource: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := DefaultSettings()
			s.ShowSourceInPreview = tt.showSource
			sp := echoSpawner()
			runner := NewProcessRunner(Python, StaticSettings(s), sp)
			p := NewBlockProcessor(Python, StaticSettings(s), nil, runner)

			host := newHost(t)
			run := p.Process(context.Background(), tt.source, wrapElement(host))

			if (run != nil) != tt.wantRun {
				t.Fatalf("Process() run = %v, want run %v", run, tt.wantRun)
			}
			if run != nil {
				waitRun(t, run)
			}
			if !tt.wantRun && len(sp.calls()) != 0 {
				t.Errorf("interpreter spawned for unmarked block")
			}
			if tt.wantRun && len(sp.calls()) != 1 {
				t.Errorf("interpreter spawned %d times, want 1", len(sp.calls()))
			}

			children := host.Children()
			if len(children) != len(tt.wantTags) {
				t.Fatalf("host = %s, want %d children", host.OuterHTML(), len(tt.wantTags))
			}

			if tt.wantRun {
				out := children[len(children)-1]
				if !out.HasClass("python-output") {
					t.Errorf("output container = %s, want python-output class", out.OuterHTML())
				}
				if out.Text() != "print(1)" {
					t.Errorf("output text = %q, want %q", out.Text(), "print(1)")
				}
			}
			if tt.showSource {
				code := onlyChild(t, children[0])
				if code.Tag() != "code" || !code.HasClass("language-python") {
					t.Errorf("source element = %s", code.OuterHTML())
				}
				if code.Text() != tt.source {
					t.Errorf("source text = %q, want %q", code.Text(), tt.source)
				}
			}
		})
	}
}

func TestBlockProcessor_SourcePrecedesOutput(t *testing.T) {
	t.Parallel()

	s := StaticSettings(DefaultSettings())
	p := NewBlockProcessor(Python, s, nil, NewProcessRunner(Python, s, echoSpawner()))

	host := newHost(t)
	waitRun(t, p.Process(context.Background(), "# run\nx", wrapElement(host)))

	children := host.Children()
	if len(children) != 2 {
		t.Fatalf("host = %s", host.OuterHTML())
	}
	if children[0].HasClass("python-output") || !children[1].HasClass("python-output") {
		t.Errorf("want source <pre> then output <pre>, got %s", host.OuterHTML())
	}
}

// ---------------------------------------------------------------------------
// TestBlockProcessor_Highlighting - Optional Highlighter
// ---------------------------------------------------------------------------

func TestBlockProcessor_Highlighting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		provider    func() HighlightProvider
		wantLoaded  bool
		wantText    string
		wantHTMLHas string
	}{
		{
			name:        "loaded highlighter",
			provider:    func() HighlightProvider { return LoadedHighlighter(upperHighlighter{}) },
			wantLoaded:  true,
			wantText:    "PRINT(1)",
			wantHTMLHas: `<span class="hl">`,
		},
		{
			name:     "no highlighter",
			provider: func() HighlightProvider { return nil },
			wantText: "print(1)",
		},
		{
			name:     "highlighter not loaded yet",
			provider: func() HighlightProvider { return NewLazyHighlighter() },
			wantText: "print(1)",
		},
		{
			name:     "highlighter error falls back to plain text",
			provider: func() HighlightProvider { return LoadedHighlighter(upperHighlighter{err: errHighlight}) },
			wantText: "print(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := StaticSettings(DefaultSettings())
			p := NewBlockProcessor(Python, s, tt.provider(), NewProcessRunner(Python, s, &fakeSpawner{}))

			host := newHost(t)
			if run := p.Process(context.Background(), "print(1)", wrapElement(host)); run != nil {
				t.Fatal("unmarked block started a run")
			}

			code := onlyChild(t, onlyChild(t, host))
			if got := code.HasClass("is-loaded"); got != tt.wantLoaded {
				t.Errorf("is-loaded = %v, want %v", got, tt.wantLoaded)
			}
			if code.Text() != tt.wantText {
				t.Errorf("text = %q, want %q", code.Text(), tt.wantText)
			}
			if tt.wantHTMLHas != "" && !containsHTML(code, tt.wantHTMLHas) {
				t.Errorf("code = %s, want to contain %q", code.OuterHTML(), tt.wantHTMLHas)
			}
		})
	}
}

func TestBlockProcessor_LateHighlighterUpgradesSource(t *testing.T) {
	t.Parallel()

	lazy := NewLazyHighlighter()
	s := StaticSettings(DefaultSettings())
	p := NewBlockProcessor(Python, s, lazy, NewProcessRunner(Python, s, &fakeSpawner{}))

	host := newHost(t)
	p.Process(context.Background(), "x = 1", wrapElement(host))

	code := onlyChild(t, onlyChild(t, host))
	if code.HasClass("is-loaded") {
		t.Fatal("source highlighted before a highlighter was loaded")
	}

	lazy.Load(upperHighlighter{})

	if !code.HasClass("is-loaded") {
		t.Error("source not highlighted after Load")
	}
	if code.Text() != "X = 1" {
		t.Errorf("text = %q, want %q", code.Text(), "X = 1")
	}
}

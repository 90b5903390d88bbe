package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-mdexec"
	"github.com/alnah/go-mdexec/internal/hints"
)

// ErrExporterInit reports that no PDF exporter could be obtained.
var ErrExporterInit = errors.New("failed to initialize PDF exporter")

// RenderOutcome holds the outcome of a single file.
type RenderOutcome struct {
	InputPath  string
	OutputPath string
	PDFPath    string // empty without --pdf
	Err        error
	Duration   time.Duration

	Blocks     int
	Executed   int
	FailedRuns int
	// SpawnFailed is set when an interpreter could not be started.
	SpawnFailed bool
	Interpreter string
}

// renderBatch processes files concurrently. Each worker holds one PDF
// exporter from pool for its whole lifetime; pool is nil without --pdf.
func renderBatch(ctx context.Context, files []FileToRender, params *renderParams, workers int, pool exporterPool, env *Environment) []RenderOutcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]RenderOutcome, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var exp pdfExporter
			if pool != nil {
				exp = pool.Acquire()
				if exp == nil {
					for idx := range jobs {
						results[idx] = RenderOutcome{InputPath: files[idx].InputPath, Err: ErrExporterInit}
					}
					return
				}
				defer pool.Release(exp)
			}

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = RenderOutcome{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = renderFile(ctx, exp, files[idx], params, env)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one file to HTML and, with an exporter, to PDF.
func renderFile(ctx context.Context, exp pdfExporter, f FileToRender, params *renderParams, env *Environment) RenderOutcome {
	start := env.Now()
	result := RenderOutcome{
		InputPath:   f.InputPath,
		OutputPath:  f.OutputPath,
		Interpreter: params.settings.Settings().InterpreterPath,
	}
	finish := func(err error) RenderOutcome {
		result.Err = err
		result.Duration = env.Now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	in := mdexec.Input{
		Markdown: string(content),
		Title:    titleFor(params.title, f.InputPath),
		CSS:      params.css,
	}
	if exp != nil {
		// Chrome loads the page from a temp file: local images need absolute URLs.
		if dir, err := filepath.Abs(filepath.Dir(f.InputPath)); err == nil {
			in.BaseDir = dir
		}
	}

	res, err := params.renderer.Render(ctx, in)
	if err != nil {
		return finish(fmt.Errorf("rendering %s: %w", f.InputPath, err))
	}
	result.Blocks = res.Blocks
	result.Executed = res.Executed
	result.FailedRuns = res.Failed
	for _, run := range res.Runs {
		if errors.Is(run.Err(), mdexec.ErrSpawn) || errors.Is(run.Err(), mdexec.ErrEmptyInterpreter) {
			result.SpawnFailed = true
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(f.OutputPath, []byte(res.HTML), filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	if exp == nil {
		return finish(nil)
	}

	pdf, err := exp.Export(ctx, res.HTML)
	if err != nil {
		return finish(fmt.Errorf("exporting %s: %w", f.InputPath, err))
	}
	result.PDFPath = f.PDFPath()
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(result.PDFPath, pdf, filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return finish(nil)
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []RenderOutcome) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the number of failed files.
// Blocks that could not run are warnings: the file itself was rendered.
func printResults(results []RenderOutcome, f commonFlags, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, env))
			continue
		}

		if r.FailedRuns > 0 && !f.quiet {
			msg := fmt.Sprintf("warning: %s: %d of %d block(s) could not run", r.InputPath, r.FailedRuns, r.Executed)
			if r.SpawnFailed {
				msg += hints.ForInterpreterNotFound(r.Interpreter)
			}
			fmt.Fprintln(env.Stderr, msg)
		}

		if f.quiet {
			continue
		}

		outputs := r.OutputPath
		if r.PDFPath != "" {
			outputs += ", " + r.PDFPath
		}
		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d blocks, %d run, %v)\n",
				r.InputPath, outputs, r.Blocks, r.Executed, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", outputs)
		}
	}

	if !f.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

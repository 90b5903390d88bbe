package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdexec"
)

// pdfExporter prints a rendered document.
type pdfExporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

// Compile-time interface implementation check.
var _ pdfExporter = (*mdexec.PDFExporter)(nil)

// exporterPool abstracts PDF exporter pooling for testability.
type exporterPool interface {
	Acquire() pdfExporter
	Release(pdfExporter)
	Size() int
	Close() error
}

// poolAdapter adapts mdexec.ExporterPool to exporterPool.
type poolAdapter struct {
	pool *mdexec.ExporterPool
}

// Compile-time check that poolAdapter implements exporterPool.
var _ exporterPool = (*poolAdapter)(nil)

// Acquire returns nil when the pool is closed.
func (a *poolAdapter) Acquire() pdfExporter {
	e := a.pool.Acquire()
	if e == nil {
		return nil
	}
	return e
}

// Release panics on exporters that did not come from this pool (programmer error).
func (a *poolAdapter) Release(e pdfExporter) {
	exp, ok := e.(*mdexec.PDFExporter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }

package main

import (
	"fmt"

	idiompage "github.com/alnah/go-idiompage"
)

// poolAdapter exposes an idiompage.PrinterPool through the Pool interface.
type poolAdapter struct {
	pool *idiompage.PrinterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (PDFPrinter, error) {
	pr, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// Release panics when given a printer the pool did not hand out.
func (a *poolAdapter) Release(p PDFPrinter) {
	pr, ok := p.(*idiompage.Printer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", p))
	}
	a.pool.Release(pr)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

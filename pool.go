package idiompage

import (
	"errors"
	"runtime"
	"sync"
)

const (
	MinPoolSize = 1
	// MaxPoolSize bounds concurrent Chrome instances; each one costs a few
	// hundred MB.
	MaxPoolSize = 8

	cpuDivisor = 2
)

// PrinterPool hands out Printers for parallel printing. Each Printer owns
// its own browser. Printers are created on first acquire.
type PrinterPool struct {
	size int
	opts []PrinterOption
	idle chan *Printer

	mu      sync.Mutex
	all     []*Printer
	created int
	closed  bool
}

// NewPrinterPool creates a pool of up to n Printers built with opts.
func NewPrinterPool(n int, opts ...PrinterOption) *PrinterPool {
	n = max(n, MinPoolSize)
	return &PrinterPool{
		size: n,
		opts: opts,
		idle: make(chan *Printer, n),
	}
}

// Acquire returns an idle Printer, creates one if capacity remains, or
// blocks until one is released. It fails with ErrPoolClosed once Close
// has been called.
func (p *PrinterPool) Acquire() (*Printer, error) {
	select {
	case pr, ok := <-p.idle:
		return p.received(pr, ok)
	default:
	}

	if p.reserve() {
		pr, err := NewPrinter(p.opts...)
		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			return nil, err
		}
		p.all = append(p.all, pr)
		return pr, nil
	}

	pr, ok := <-p.idle
	return p.received(pr, ok)
}

// reserve claims a creation slot.
func (p *PrinterPool) reserve() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.created >= p.size {
		return false
	}
	p.created++
	return true
}

func (p *PrinterPool) received(pr *Printer, ok bool) (*Printer, error) {
	if !ok {
		return nil, ErrPoolClosed
	}
	return pr, nil
}

// Release hands pr back. Releasing after Close is a no-op.
func (p *PrinterPool) Release(pr *Printer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// idle has room for every printer the pool can create, so this
	// never blocks while holding the lock.
	p.idle <- pr
}

// Close shuts every browser down and joins their errors.
func (p *PrinterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	printers := p.all
	p.mu.Unlock()

	errs := make([]error, 0, len(printers))
	for _, pr := range printers {
		errs = append(errs, pr.Close())
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PrinterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}

package delta

import (
	"sync"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
)

// Bundler owns one Calculator per distinct bundle (entry file + options) and
// fans watcher batches out to all of them. Multiple clients requesting the
// same bundle share a calculator and therefore queue behind each other's
// in-flight builds.
type Bundler struct {
	transformer ports.Transformer
	source      ports.OptionSource
	tracer      ports.Tracer
	logger      ports.Logger

	mu          sync.Mutex
	calculators map[string]*Calculator
}

// NewBundler creates an empty bundler.
func NewBundler(
	transformer ports.Transformer,
	source ports.OptionSource,
	tracer ports.Tracer,
	logger ports.Logger,
) *Bundler {
	return &Bundler{
		transformer: transformer,
		source:      source,
		tracer:      tracer,
		logger:      logger,
		calculators: make(map[string]*Calculator),
	}
}

// Calculator returns the calculator for the given bundle options, creating
// it on first request.
func (b *Bundler) Calculator(options domain.BuildOptions) *Calculator {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := options.Key()
	if calc, exists := b.calculators[key]; exists {
		return calc
	}

	calc := NewCalculator(options, b.transformer, b.source, b.tracer, b.logger)
	calc.SetDetach(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.calculators, key)
	})
	b.calculators[key] = calc
	return calc
}

// OnFileChange forwards a batch of watch events to every calculator.
func (b *Bundler) OnFileChange(events ...ports.WatchEvent) {
	b.mu.Lock()
	calcs := make([]*Calculator, 0, len(b.calculators))
	for _, calc := range b.calculators {
		calcs = append(calcs, calc)
	}
	b.mu.Unlock()

	for _, calc := range calcs {
		calc.OnFileChange(events...)
	}
}

// End tears down every calculator.
func (b *Bundler) End() {
	b.mu.Lock()
	calcs := make([]*Calculator, 0, len(b.calculators))
	for _, calc := range b.calculators {
		calcs = append(calcs, calc)
	}
	b.calculators = make(map[string]*Calculator)
	b.mu.Unlock()

	for _, calc := range calcs {
		calc.End()
	}
}

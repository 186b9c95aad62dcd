/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package service

import (
	"errors"
	"sync"
)

// CompositeUnit starts and stops several units together.
type CompositeUnit struct {
	Units []Unit
}

var (
	_ Unit              = (*CompositeUnit)(nil)
	_ MetricsRegisterer = (*CompositeUnit)(nil)
)

// NewCompositeUnit creates a new CompositeUnit.
func NewCompositeUnit(units ...Unit) *CompositeUnit {
	return &CompositeUnit{Units: units}
}

// Start starts all units concurrently and returns when every Start call has returned.
// If any unit fails, the others are stopped non-gracefully and all errors are reported as one.
func (cu *CompositeUnit) Start(fatalErr chan<- error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		stopOnce sync.Once
	)
	wg.Add(len(cu.Units))
	for _, u := range cu.Units {
		go func(u Unit) {
			defer wg.Done()
			unitErr := make(chan error, 1)
			u.Start(unitErr)
			select {
			case err := <-unitErr:
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				stopOnce.Do(func() {
					if stopErr := cu.Stop(false); stopErr != nil {
						mu.Lock()
						errs = append(errs, stopErr)
						mu.Unlock()
					}
				})
			default:
			}
		}(u)
	}
	wg.Wait()

	if len(errs) != 0 {
		fatalErr <- errors.Join(errs...)
	}
}

// Stop stops all units concurrently and joins their errors.
func (cu *CompositeUnit) Stop(gracefully bool) error {
	errs := make([]error, len(cu.Units))
	var wg sync.WaitGroup
	wg.Add(len(cu.Units))
	for i, u := range cu.Units {
		go func(i int, u Unit) {
			defer wg.Done()
			errs[i] = u.Stop(gracefully)
		}(i, u)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// MustRegisterMetrics registers metrics of units implementing MetricsRegisterer.
func (cu *CompositeUnit) MustRegisterMetrics() {
	for _, u := range cu.Units {
		if mr, ok := u.(MetricsRegisterer); ok {
			mr.MustRegisterMetrics()
		}
	}
}

// UnregisterMetrics unregisters metrics of units implementing MetricsRegisterer.
func (cu *CompositeUnit) UnregisterMetrics() {
	for _, u := range cu.Units {
		if mr, ok := u.(MetricsRegisterer); ok {
			mr.UnregisterMetrics()
		}
	}
}

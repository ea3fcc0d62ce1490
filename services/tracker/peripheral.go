package tracker

import (
	"flighttrack-go/types"
)

// Handle owns one peripheral: lazily openable and re-openable, with exactly
// one logical owner (the loop). A failed peripheral is never fatal; the loop
// retries Open on a later cycle.
type Handle[T any] struct {
	open  func() (T, error)
	dev   T
	state types.PeripheralState
	err   error
}

func NewHandle[T any](open func() (T, error)) *Handle[T] {
	return &Handle[T]{open: open}
}

// Open (re)constructs the device. The previous device value is discarded
// before the attempt so no alias to a dead handle survives a retry.
func (h *Handle[T]) Open() error {
	var zero T
	h.dev = zero
	dev, err := h.open()
	if err != nil {
		h.state = types.StateFailed
		h.err = err
		return err
	}
	h.dev = dev
	h.state = types.StateReady
	h.err = nil
	return nil
}

// Ready is a pure state query; the loop consults it before each use.
func (h *Handle[T]) Ready() bool { return h.state == types.StateReady }

func (h *Handle[T]) State() types.PeripheralState { return h.state }

// Err returns the last open or operation error, nil when Ready.
func (h *Handle[T]) Err() error { return h.err }

// Device returns the owned device; only meaningful while Ready.
func (h *Handle[T]) Device() T { return h.dev }

// Fail records an operation-time transport error and drops the device.
func (h *Handle[T]) Fail(err error) {
	var zero T
	h.dev = zero
	h.state = types.StateFailed
	h.err = err
}

// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

// Config governs how a MappedFile is opened. It is built with functional
// options, the same construction idiom used for the database handle in
// dbm/options.go, generalized here to the chunked-mapping engine.
type Config struct {
	ChunkSize    int64
	OverlapSize  int64
	Capacity     int64
	ReadOnly     bool
	Retained     bool
	DeferredFree bool
	Logger       Logger
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithChunkSize sets the chunk size; it is aligned up to the OS
// page size by the engine.
func WithChunkSize(n int64) Option { return func(c *Config) { c.ChunkSize = n } }

// WithOverlapSize sets the trailing overlap carried by every chunk,
// including the last; 0 disables overlap.
func WithOverlapSize(n int64) Option { return func(c *Config) { c.OverlapSize = n } }

// WithCapacity sets the file's logical capacity.
func WithCapacity(n int64) Option { return func(c *Config) { c.Capacity = n } }

// WithReadOnly opens the file read-only; writes fail with ErrUnsupported.
func WithReadOnly(ro bool) Option { return func(c *Config) { c.ReadOnly = ro } }

// WithRetained puts the MappedFile in retained mode: the
// engine itself holds a reservation on every mapped chunk for the file's
// entire lifetime, in addition to any reservations held by cursors.
func WithRetained(retained bool) Option { return func(c *Config) { c.Retained = retained } }

// WithDeferredFree controls whether NativeStore dispatches its backing
// region's free to a background goroutine (the default) or frees it
// synchronously inside Release; it has no effect on mapped chunks, which
// always release synchronously regardless of this setting.
func WithDeferredFree(enabled bool) Option { return func(c *Config) { c.DeferredFree = enabled } }

// WithLogger injects a structured logger; the default is a no-op.
func WithLogger(l Logger) Option { return func(c *Config) { c.Logger = l } }

func defaultConfig() Config {
	return Config{
		ChunkSize:    64 << 20, // 64 MiB, aligned to the OS page size by the engine
		DeferredFree: true,
		Logger:       noopLogger{},
	}
}

func buildConfig(opts []Option) Config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

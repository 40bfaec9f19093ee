package bridge

import "strings"

// NormalizeFunc canonicalizes incoming text before comparison and
// parsing.
type NormalizeFunc func(string) string

// DefaultNormalize strips carriage returns, folding CRLF to LF.
func DefaultNormalize(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

// ErrorCallback receives every failure the bridge reports, once per
// attempt.
type ErrorCallback func(kind ErrorKind, msg string, cause error)

// WarnCallback receives non-fatal advisory conditions, e.g. duplicate
// wiring or a diff boundary inside a grapheme cluster.
type WarnCallback func(msg string)

// Option configures a Bridge during creation.
type Option func(*Bridge)

// WithIncrementalParse installs an incremental parse collaborator
// consulted before the parse cache.
func WithIncrementalParse(fn IncrementalParseFunc) Option {
	return func(b *Bridge) { b.incremental = fn }
}

// WithCacheSize sets the parse cache capacity. 0 disables the cache;
// negative values select the default.
func WithCacheSize(n int) Option {
	return func(b *Bridge) { b.cacheSize = n }
}

// WithNormalize replaces the default CRLF-stripping normalization.
func WithNormalize(fn NormalizeFunc) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.normalize = fn
		}
	}
}

// WithErrorCallback installs the error callback.
func WithErrorCallback(fn ErrorCallback) Option {
	return func(b *Bridge) { b.onError = fn }
}

// WithWarnCallback installs the warning callback.
func WithWarnCallback(fn WarnCallback) Option {
	return func(b *Bridge) { b.onWarn = fn }
}

package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each dataset or
// API tenant its own namespace in a shared backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "dataset:pubmed-2019:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SampleKey implements [Keyer].
func (k *ScopedKeyer) SampleKey(graphHash string, opts SampleKeyOpts) string {
	return k.prefix + k.inner.SampleKey(graphHash, opts)
}

// GraphKey implements [Keyer].
func (k *ScopedKeyer) GraphKey(recordsHash, kind string) string {
	return k.prefix + k.inner.GraphKey(recordsHash, kind)
}

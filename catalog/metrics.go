package catalog

// Metrics receives repository events. Implementations must be safe for
// concurrent use.
type Metrics interface {
	CacheHit(entry string)
	CacheMiss(entry string)
	Invalidated(scope string)
	StoreFailed(op string)
}

// Cache entry labels reported to Metrics.
const (
	EntryItem = "item"
	EntryList = "list"
	EntryPage = "page"
)

// Invalidation scopes reported to Metrics.
const (
	ScopeItem       = "item"
	ScopeCollection = "collection"
)

type noopMetrics struct{}

func (noopMetrics) CacheHit(string)    {}
func (noopMetrics) CacheMiss(string)   {}
func (noopMetrics) Invalidated(string) {}
func (noopMetrics) StoreFailed(string) {}

package reporting

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/fields"
)

// UnknownKey groups records whose key is missing.
const UnknownKey = "Unknown"

// SumField names a numeric attribute summed per group.
type SumField[T any] struct {
	Name  string
	Value func(T) decimal.Decimal
}

// Aggregate holds the record count and field sums of one group.
type Aggregate struct {
	Key   string
	Count int
	Sums  map[string]decimal.Decimal
}

// Sum returns the running total of a field, zero when the field was never summed.
func (a *Aggregate) Sum(name string) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.Sums[name]
}

// Aggregates is a keyed set of groups that remembers first-seen key order.
type Aggregates struct {
	order []string
	byKey map[string]*Aggregate
}

func newAggregates() *Aggregates {
	return &Aggregates{byKey: make(map[string]*Aggregate)}
}

// AggregateByKey groups records by key and sums the requested fields.
func AggregateByKey[T any](records []T, key func(T) string, sums ...SumField[T]) *Aggregates {
	out := newAggregates()
	for _, record := range records {
		group := out.group(groupKey(key(record)))
		group.Count++
		for _, field := range sums {
			group.Sums[field.Name] = group.Sums[field.Name].Add(field.Value(record))
		}
	}
	return out
}

func groupKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" || key == fields.Placeholder {
		return UnknownKey
	}
	return key
}

func (a *Aggregates) group(key string) *Aggregate {
	if existing, ok := a.byKey[key]; ok {
		return existing
	}
	created := &Aggregate{Key: key, Sums: make(map[string]decimal.Decimal)}
	a.byKey[key] = created
	a.order = append(a.order, key)
	return created
}

// Len returns the number of groups.
func (a *Aggregates) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Get returns the group stored under key.
func (a *Aggregates) Get(key string) (*Aggregate, bool) {
	if a == nil {
		return nil, false
	}
	group, ok := a.byKey[key]
	return group, ok
}

// List returns the groups in first-seen order.
func (a *Aggregates) List() []*Aggregate {
	if a == nil {
		return nil
	}
	out := make([]*Aggregate, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.byKey[key])
	}
	return out
}

// Sorted returns the groups ordered by less. Ties keep first-seen order.
func (a *Aggregates) Sorted(less func(x, y *Aggregate) bool) []*Aggregate {
	out := a.List()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Merge returns a new set holding the per-key sum of both inputs.
func (a *Aggregates) Merge(other *Aggregates) *Aggregates {
	out := newAggregates()
	for _, src := range []*Aggregates{a, other} {
		for _, g := range src.List() {
			dst := out.group(g.Key)
			dst.Count += g.Count
			for name, value := range g.Sums {
				dst.Sums[name] = dst.Sums[name].Add(value)
			}
		}
	}
	return out
}

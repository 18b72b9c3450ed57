package sum

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const TOTAL_DECIMALS = 2

type PeriodTotal struct {
	Key   string
	Total decimal.Decimal
}

// PeriodTotals sums revenue per period key. Keys are compared as exact strings, so a
// padded and an unpadded key for the same period are different groups.
// Not safe for concurrent use.
type PeriodTotals struct {
	totals map[string]decimal.Decimal
}

func NewPeriodTotals() *PeriodTotals {
	return &PeriodTotals{totals: make(map[string]decimal.Decimal)}
}

func (p *PeriodTotals) Add(key string, value float64) {
	p.totals[key] = p.totals[key].Add(decimal.NewFromFloat(value))
}

// Collect lets PeriodTotals act as the pair sink of a record transform.
func (p *PeriodTotals) Collect(key string, value float64) {
	p.Add(key, value)
}

func (p *PeriodTotals) Merge(other *PeriodTotals) {
	for key, total := range other.totals {
		p.totals[key] = p.totals[key].Add(total)
	}
}

func (p *PeriodTotals) Get(key string) float64 {
	return p.totals[key].InexactFloat64()
}

func (p *PeriodTotals) Total(key string) decimal.Decimal {
	return p.totals[key]
}

func (p *PeriodTotals) Len() int {
	return len(p.totals)
}

func (p *PeriodTotals) Keys() []string {
	keys := make([]string, 0, len(p.totals))
	for key := range p.totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// TopPeriods returns the k periods with the highest revenue, highest first.
// Ties are broken by key.
func (p *PeriodTotals) TopPeriods(k int) []PeriodTotal {
	toper := NewToper(k, func(a, b PeriodTotal) int {
		if cmp := b.Total.Cmp(a.Total); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.Key, b.Key)
	})
	if toper == nil {
		return nil
	}

	for key, total := range p.totals {
		toper.Add(PeriodTotal{Key: key, Total: total})
	}
	return toper.GetTopK()
}

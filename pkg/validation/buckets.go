package validation

import "github.com/shopspring/decimal"

// buckets sums decimal amounts per label and iterates labels in the order
// they were first added.
type buckets struct {
	labels []string
	totals map[string]decimal.Decimal
}

func newBuckets() *buckets {
	return &buckets{totals: make(map[string]decimal.Decimal)}
}

func (b *buckets) add(label string, amount decimal.Decimal) {
	total, exists := b.totals[label]
	if !exists {
		b.labels = append(b.labels, label)
	}

	b.totals[label] = total.Add(amount)
}

func (b *buckets) get(label string) (decimal.Decimal, bool) {
	total, exists := b.totals[label]

	return total, exists
}

// each visits the labels in first-added order.
func (b *buckets) each(fn func(label string, total decimal.Decimal)) {
	for _, label := range b.labels {
		fn(label, b.totals[label])
	}
}

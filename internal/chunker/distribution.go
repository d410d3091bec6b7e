package chunker

import "sort"

// Bucket is one histogram entry: how many documents produced Chunks chunks.
type Bucket struct {
	Chunks    int
	Documents int
}

// Distribution counts documents by the number of chunks each one produced.
// Bucket 0 holds documents that yielded nothing usable.
type Distribution struct {
	counts map[int]int
}

func NewDistribution() *Distribution {
	return &Distribution{counts: make(map[int]int)}
}

// Observe records one document that produced chunks records.
func (d *Distribution) Observe(chunks int) {
	if d.counts == nil {
		d.counts = make(map[int]int)
	}
	d.counts[chunks]++
}

// Count returns the number of documents in the given bucket.
func (d *Distribution) Count(chunks int) int {
	return d.counts[chunks]
}

// Buckets lists non-empty buckets in ascending chunk order.
func (d *Distribution) Buckets() []Bucket {
	out := make([]Bucket, 0, len(d.counts))
	for c, n := range d.counts {
		out = append(out, Bucket{Chunks: c, Documents: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chunks < out[j].Chunks })
	return out
}

func (d *Distribution) Total() int {
	total := 0
	for _, n := range d.counts {
		total += n
	}
	return total
}

func (d *Distribution) Single() int {
	return d.counts[1]
}

func (d *Distribution) Multi() int {
	total := 0
	for c, n := range d.counts {
		if c > 1 {
			total += n
		}
	}
	return total
}

func (d *Distribution) Skipped() int {
	return d.counts[0]
}

package userstream

import (
	"context"
	"iter"
)

// Ages projects the reader's single-row stream to bare ages. The projection
// is lazy: ages are produced one at a time and prior records are not
// retained.
func (r *Reader) Ages(ctx context.Context) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for rec, err := range r.Rows(ctx) {
			if err != nil {
				yield(0, err)
				return
			}
			if !yield(rec.Age, nil) {
				return
			}
		}
	}
}

// AverageAge computes the mean age over the reader's single-row stream with
// a running (sum, count), never materializing the result set. An empty
// stream yields 0. Because it consumes [Reader.Ages], the result is
// independent of any batch size used elsewhere.
func AverageAge(ctx context.Context, r *Reader) (float64, error) {
	var sum, count int64
	for age, err := range r.Ages(ctx) {
		if err != nil {
			return 0, err
		}
		sum += int64(age)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

package aggregate

import "fmt"

// Batch is an inclusive range of pool indexes.
type Batch struct {
	From int
	To   int
}

// SplitBatches splits n items into batches of size batchSize.
func SplitBatches(n, batchSize int) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if n < 0 {
		return nil, fmt.Errorf("item count must be >= 0")
	}

	batches := make([]Batch, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize - 1
		if end >= n {
			end = n - 1
		}
		batches = append(batches, Batch{From: start, To: end})
	}
	return batches, nil
}

package bank

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/abhisek/examiz/internal/question"
)

// CategoryWeight is the share of a test drawn from one category.
type CategoryWeight struct {
	Category string
	Weight   float64
}

// Weights is an ordered list of category shares, heaviest first.
type Weights []CategoryWeight

// DefaultWeights is the DP-600 skills-measured split.
var DefaultWeights = Weights{
	{Category: "prepare_data", Weight: 0.45},
	{Category: "maintain_analytics_solution", Weight: 0.30},
	{Category: "semantic_models", Weight: 0.25},
}

// WeightsFromMap converts a category -> weight map, ordering by weight
// descending and then by name. Non-positive weights are dropped and the
// rest are scaled to sum to 1, so 45/30/25 reads the same as .45/.30/.25.
func WeightsFromMap(m map[string]float64) Weights {
	w := make(Weights, 0, len(m))
	for c, v := range m {
		if v > 0 {
			w = append(w, CategoryWeight{Category: c, Weight: v})
		}
	}
	sort.Slice(w, func(i, j int) bool {
		if w[i].Weight != w[j].Weight {
			return w[i].Weight > w[j].Weight
		}
		return w[i].Category < w[j].Category
	})
	return w.Normalized()
}

// Normalized returns the weights scaled to sum to 1. Weights that already
// do are returned unchanged.
func (w Weights) Normalized() Weights {
	total := w.total()
	if total <= 0 || math.Abs(total-1) < 1e-9 {
		return w
	}
	out := make(Weights, len(w))
	for i, cw := range w {
		out[i] = CategoryWeight{Category: cw.Category, Weight: cw.Weight / total}
	}
	return out
}

func (w Weights) total() float64 {
	var t float64
	for _, cw := range w {
		if cw.Weight > 0 {
			t += cw.Weight
		}
	}
	return t
}

// Map returns the weights keyed by category.
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, len(w))
	for _, cw := range w {
		m[cw.Category] = cw.Weight
	}
	return m
}

// Quotas splits n across the weighted categories. Each category gets
// floor(n*share) of the normalized weights; whatever is left goes to the
// heaviest category. The quotas never add up to more than n.
func (w Weights) Quotas(n int) map[string]int {
	quotas := make(map[string]int, len(w))
	if len(w) == 0 || n <= 0 || w.total() <= 0 {
		return quotas
	}
	sum := 0
	for _, cw := range w.Normalized() {
		if cw.Weight <= 0 {
			continue
		}
		// Nudge before flooring so 30*0.3 is 9, not 8.
		q := int(math.Floor(float64(n)*cw.Weight + 1e-9))
		quotas[cw.Category] = q
		sum += q
	}
	if rest := n - sum; rest > 0 {
		quotas[w.heaviest()] += rest
	}
	return quotas
}

func (w Weights) heaviest() string {
	best := w[0]
	for _, cw := range w[1:] {
		if cw.Weight > best.Weight {
			best = cw
		}
	}
	return best.Category
}

// Select draws n questions from pool honouring the category weights.
// Short categories contribute what they have and the gap is filled from
// any remaining question. The result is grouped by category in weight
// order, with top-up questions last. A zero seed draws from the clock.
func Select(pool []question.Question, n int, w Weights, seed uint64) ([]question.Question, error) {
	if n > len(pool) {
		return nil, fmt.Errorf("%w: need %d, bank has %d", ErrInsufficient, n, len(pool))
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	byCategory := make(map[string][]int)
	for i, q := range pool {
		byCategory[q.Category] = append(byCategory[q.Category], i)
	}

	taken := make(map[int]bool, n)
	out := make([]question.Question, 0, n)
	quotas := w.Quotas(n)
	for _, cw := range w {
		idx := byCategory[cw.Category]
		for _, i := range sample(rng, idx, quotas[cw.Category]) {
			taken[i] = true
			out = append(out, pool[i].Clone())
		}
	}

	if len(out) < n {
		var rest []int
		for i := range pool {
			if !taken[i] {
				rest = append(rest, i)
			}
		}
		for _, i := range sample(rng, rest, n-len(out)) {
			out = append(out, pool[i].Clone())
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// sample picks up to k distinct elements of idx without replacement,
// keeping their original relative order.
func sample(rng *rand.Rand, idx []int, k int) []int {
	if k > len(idx) {
		k = len(idx)
	}
	if k <= 0 {
		return nil
	}
	perm := rng.Perm(len(idx))[:k]
	sort.Ints(perm)
	out := make([]int, k)
	for i, p := range perm {
		out[i] = idx[p]
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package engine

import (
	"math"
	"sort"
	"sync"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

// tierSpec is one price segment of the target mix.
type tierSpec struct {
	tier       domain.PriceTier
	min, max   int
	percent    int
	categories []domain.Category
}

var defaultTiers = []tierSpec{
	{domain.TierBudget, 500, 1200, 15, []domain.Category{domain.CategoryXC, domain.CategoryTrail}},
	{domain.TierMid, 1200, 2500, 35, []domain.Category{domain.CategoryTrail, domain.CategoryEnduro}},
	{domain.TierPremium, 2500, 4000, 30, []domain.Category{domain.CategoryEnduro, domain.CategoryTrail}},
	{domain.TierHighEnd, 4000, 8000, 20, []domain.Category{domain.CategoryEnduro, domain.CategoryDH}},
}

const defaultQuota = 5

// Strategy generates the targets of a hunt run, balanced across price
// tiers and categories. Each call rotates the brand order so consecutive
// runs do not search the same models first.
type Strategy struct {
	models map[domain.Category]map[string][]string
	quota  int

	mu       sync.Mutex
	rotation int
}

// NewStrategy creates a Strategy over the lexicon's model table. A
// non-positive quota uses the default.
func NewStrategy(lex *lexicon.Lexicon, quota int) *Strategy {
	if quota <= 0 {
		quota = defaultQuota
	}
	return &Strategy{models: lex.Models, quota: quota}
}

// Targets returns up to total targets sorted by priority, highest first.
// Ties keep generation order.
func (s *Strategy) Targets(total int) []domain.Target {
	s.mu.Lock()
	offset := s.rotation
	s.rotation++
	s.mu.Unlock()

	var targets []domain.Target
	for _, ts := range defaultTiers {
		want := int(math.Round(float64(total) * float64(ts.percent) / 100))
		got := 0
		for i, cat := range ts.categories {
			// Split what is left evenly over the remaining categories so a
			// category short on models hands its share to the next one.
			left := len(ts.categories) - i
			share := (want - got + left - 1) / left
			taken := 0
		brands:
			for _, brand := range rotate(lexicon.SortedKeys(s.models[cat]), offset) {
				for _, model := range s.models[cat][brand] {
					if taken >= share {
						break brands
					}
					targets = append(targets, domain.Target{
						Brand:    brand,
						Model:    model,
						Category: cat,
						Tier:     ts.tier,
						MinPrice: ts.min,
						MaxPrice: ts.max,
						Priority: Priority(ts.tier, cat),
						Quota:    s.quota,
					})
					taken++
				}
			}
			got += taken
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Priority > targets[j].Priority
	})
	return targets
}

// Priority ranks a tier/category combination. Higher runs first.
func Priority(tier domain.PriceTier, cat domain.Category) int {
	switch {
	case tier == domain.TierHighEnd && cat == domain.CategoryDH:
		return 10
	case tier == domain.TierPremium && cat == domain.CategoryEnduro:
		return 9
	case tier == domain.TierMid && cat == domain.CategoryTrail:
		return 7
	default:
		return 5
	}
}

func rotate(s []string, n int) []string {
	if len(s) == 0 {
		return s
	}
	n %= len(s)
	return append(append([]string{}, s[n:]...), s[:n]...)
}

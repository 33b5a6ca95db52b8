package catalog

import (
	"math"
	"math/rand/v2"
	"sync"
)

// PriceStrategy supplies a price for items that arrive without one.
type PriceStrategy interface {
	Price(item *Item) float64
}

// FixedPrice assigns the same price to every item.
type FixedPrice float64

// Price returns the fixed value.
func (p FixedPrice) Price(*Item) float64 { return float64(p) }

// RandomPrice draws a price uniformly from [0, Max) rounded to cents.
// The source is explicit so runs are reproducible for a given seed.
type RandomPrice struct {
	mu  sync.Mutex
	rnd *rand.Rand
	max float64
}

// NewRandomPrice creates a seeded random price strategy.
func NewRandomPrice(seed uint64, maxPrice float64) *RandomPrice {
	return &RandomPrice{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		max: maxPrice,
	}
}

// Price returns the next random price.
func (p *RandomPrice) Price(*Item) float64 {
	p.mu.Lock()
	v := p.rnd.Float64() * p.max
	p.mu.Unlock()
	return math.Round(v*100) / 100
}

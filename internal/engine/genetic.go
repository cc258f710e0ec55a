package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/atlaspack/internal/model"
)

// GeneticConfig holds parameters for the genetic order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// chromosome is a candidate request order: a permutation of request indices.
type chromosome struct {
	genes   []int
	fitness float64
}

// orderSearch evolves request orders that place as much area as possible.
type orderSearch struct {
	canvas   model.Extent
	strategy model.Strategy
	config   GeneticConfig
	requests []model.Request
	rng      *rand.Rand
}

// SearchOrder looks for a request order that lets the chosen strategy place
// every request, or failing that as much area as possible. The search is
// seeded, so identical inputs always give the same order. The input order
// and the largest-area-first order are both part of the initial population,
// so the result is never worse than either of them.
func SearchOrder(canvas model.Extent, strategy model.Strategy, requests []model.Request, config GeneticConfig) ([]model.Request, error) {
	if _, err := NewAllocator(canvas, strategy); err != nil {
		return nil, err
	}
	if len(requests) < 2 {
		return SortRequests(requests, model.OrderNone), nil
	}
	if config.PopulationSize < 2 {
		config.PopulationSize = 2
	}

	s := &orderSearch{
		canvas:   canvas,
		strategy: strategy,
		config:   config,
		requests: requests,
		rng:      rand.New(rand.NewSource(config.Seed)),
	}
	best := s.optimize()

	out := make([]model.Request, len(best.genes))
	for i, idx := range best.genes {
		out[i] = requests[idx]
	}
	return out, nil
}

// optimize runs the genetic algorithm and returns the best chromosome.
func (s *orderSearch) optimize() chromosome {
	population := s.initPopulation()
	for i := range population {
		population[i].fitness = s.evaluate(population[i])
	}

	for gen := 0; gen < s.config.Generations; gen++ {
		sortByFitness(population)
		if population[0].fitness >= 2 {
			// Everything placed; no order can do better.
			break
		}

		newPop := make([]chromosome, 0, s.config.PopulationSize)

		eliteCount := min(s.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < s.config.PopulationSize {
			parent1 := s.tournamentSelect(population)
			parent2 := s.tournamentSelect(population)

			child := s.orderCrossover(parent1, parent2)
			s.mutate(&child)

			child.fitness = s.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return population[0]
}

// sortByFitness orders the population best first. The stable sort keeps
// earlier individuals ahead on ties, so seeded orders win over random ones.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation seeds the input order and the largest-area-first order,
// then fills the rest with random permutations.
func (s *orderSearch) initPopulation() []chromosome {
	n := len(s.requests)
	population := make([]chromosome, 0, s.config.PopulationSize)

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	population = append(population, chromosome{genes: identity})
	population = append(population, s.createGreedyChromosome())

	for len(population) < s.config.PopulationSize {
		population = append(population, chromosome{genes: s.rng.Perm(n)})
	}
	return population
}

// createGreedyChromosome orders requests by area descending.
func (s *orderSearch) createGreedyChromosome() chromosome {
	genes := make([]int, len(s.requests))
	for i := range genes {
		genes[i] = i
	}
	sort.SliceStable(genes, func(i, j int) bool {
		return s.requests[genes[i]].Extent.Area() > s.requests[genes[j]].Extent.Area()
	})
	return chromosome{genes: genes}
}

// evaluate packs the chromosome's order with a fresh allocator.
// Fitness is the placed fraction of requested area, plus one when every
// request was placed.
func (s *orderSearch) evaluate(c chromosome) float64 {
	alloc, err := NewAllocator(s.canvas, s.strategy)
	if err != nil {
		return 0
	}
	ordered := make([]model.Request, len(c.genes))
	var requested int
	for i, idx := range c.genes {
		ordered[i] = s.requests[idx]
		requested += s.requests[idx].Extent.Area()
	}

	report := Fit(alloc, ordered)
	if requested == 0 {
		return 0
	}
	fitness := float64(report.PlacedArea()) / float64(requested)
	if len(report.Unplaced) == 0 {
		fitness += 1
	}
	return fitness
}

// tournamentSelect picks the best individual from a random tournament.
func (s *orderSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[s.rng.Intn(len(population))]
	for i := 1; i < s.config.TournamentSize; i++ {
		candidate := population[s.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (s *orderSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := s.rng.Intn(n)
	point2 := s.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, g := range parent2.genes {
		if !inSegment[g] {
			child.genes[childIdx] = g
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (s *orderSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if s.rng.Float64() < s.config.MutationRate {
		i := s.rng.Intn(n)
		j := s.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if s.rng.Float64() < s.config.MutationRate*0.5 {
		i := s.rng.Intn(n)
		j := s.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// Package improve implements iterative improvement over a fixed visiting
// order: self-inverting neighborhood moves (swap, 2-opt, insert) applied
// to the order, each scored by resolving the
// truck/drone partition from scratch with an inner fixed-order solver,
// keeping whichever single move most reduces total cost, until no move
// improves on the current best.
package improve

import (
	"log/slog"
	"math"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
)

// Action modifies order in place and can undo that exact modification.
// Applying DoAction then UndoAction must return order to its original
// contents.
type Action interface {
	DoAction(order []int)
	UndoAction(order []int)
}

// Provider generates every action in one neighborhood for the current
// order.
type Provider interface {
	Actions(order []int) []Action
}

// Solver divides a fixed visiting order between truck and drone.
// fixedorder.Solve satisfies this signature directly.
type Solver func(inst instance.Instance, order []int, logger *slog.Logger) (operation.Solution, error)

// SwapProvider generates every action that exchanges the locations at two
// distinct positions.
type SwapProvider struct{}

func (SwapProvider) Actions(order []int) []Action {
	n := len(order)
	var result []Action
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			result = append(result, swapAction{from: i, to: j})
		}
	}
	return result
}

type swapAction struct{ from, to int }

func (a swapAction) DoAction(order []int)   { order[a.from], order[a.to] = order[a.to], order[a.from] }
func (a swapAction) UndoAction(order []int) { a.DoAction(order) }

// TwoOptProvider generates every action that reverses a contiguous
// subsequence of the order.
type TwoOptProvider struct{}

func (TwoOptProvider) Actions(order []int) []Action {
	n := len(order)
	var result []Action
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			result = append(result, twoOptAction{from: i, to: j})
		}
	}
	return result
}

type twoOptAction struct{ from, to int }

func (a twoOptAction) DoAction(order []int) {
	for i := 0; a.from+i < a.to-i; i++ {
		order[a.to-i], order[a.from+i] = order[a.from+i], order[a.to-i]
	}
}
func (a twoOptAction) UndoAction(order []int) { a.DoAction(order) }

// InsertProvider generates every action that removes the location at one
// position and reinserts it at another.
type InsertProvider struct{}

func (InsertProvider) Actions(order []int) []Action {
	n := len(order)
	var result []Action
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				result = append(result, insertAction{from: i, to: j})
			}
		}
	}
	return result
}

type insertAction struct{ from, to int }

func (a insertAction) DoAction(order []int) {
	elem := removeAt(order, a.from)
	insertAt := a.to
	if a.to > a.from {
		insertAt = a.to - 1
	}
	insertElem(order, insertAt, elem)
}

func (a insertAction) UndoAction(order []int) {
	removeIdx := a.to
	if a.to > a.from {
		removeIdx = a.to - 1
	}
	elem := removeAt(order, removeIdx)
	insertElem(order, a.from, elem)
}

// removeAt removes and returns order[idx], shifting every later element
// one position left; the final slot is left stale until insertElem fills
// it back in.
func removeAt(order []int, idx int) int {
	elem := order[idx]
	copy(order[idx:], order[idx+1:])
	return elem
}

// insertElem shifts order[idx:len-1] one position right and places elem
// at idx, undoing exactly what removeAt did.
func insertElem(order []int, idx int, elem int) {
	copy(order[idx+1:], order[idx:len(order)-1])
	order[idx] = elem
}

// CombinedProvider concatenates the actions of every provider it holds.
type CombinedProvider struct {
	Providers []Provider
}

func (c CombinedProvider) Actions(order []int) []Action {
	var result []Action
	for _, p := range c.Providers {
		result = append(result, p.Actions(order)...)
	}
	return result
}

// DefaultProviders returns the standard swap, 2-opt, and insert
// neighborhoods combined.
func DefaultProviders() Provider {
	return CombinedProvider{Providers: []Provider{SwapProvider{}, TwoOptProvider{}, InsertProvider{}}}
}

// Run applies iterative improvement to a copy of order, leaving order
// itself unchanged, and returns the best order found along with its
// solved solution. logger may be nil, in
// which case Run logs nothing; otherwise it receives the move accepted at
// each iteration (at debug level) and the final solution's total cost.
func Run(inst instance.Instance, order []int, solver Solver, provider Provider, logger *slog.Logger) ([]int, operation.Solution, error) {
	current := make([]int, len(order))
	copy(current, order)

	bestSol, err := solver(inst, current, nil)
	if err != nil {
		return nil, operation.Solution{}, err
	}
	bestCost, err := totalCost(inst, bestSol)
	if err != nil {
		return nil, operation.Solution{}, err
	}

	iterations := 0
	for {
		action, newOrderCost, ok := bestAction(inst, current, solver, provider, bestCost)
		if !ok {
			break
		}
		action.DoAction(current)
		newSol, err := solver(inst, current, nil)
		if err != nil {
			return nil, operation.Solution{}, err
		}
		bestSol = newSol
		bestCost = newOrderCost
		iterations++
		if logger != nil {
			logger.Debug("improve iteration", "iteration", iterations, "cost", bestCost)
		}
	}

	if logger != nil {
		logger.Info("improve finished", "iterations", iterations, "cost", bestCost)
	}
	return current, bestSol, nil
}

func bestAction(inst instance.Instance, order []int, solver Solver, provider Provider, curCost float64) (Action, float64, bool) {
	var best Action
	bestCost := curCost

	for _, a := range provider.Actions(order) {
		a.DoAction(order)
		sol, err := solver(inst, order, nil)
		a.UndoAction(order)
		if err != nil {
			continue
		}
		cost, err := totalCost(inst, sol)
		if err != nil {
			continue
		}
		if cost < bestCost {
			best = a
			bestCost = cost
		}
	}

	if best == nil {
		return nil, 0, false
	}
	return best, bestCost, true
}

func totalCost(inst instance.Instance, sol operation.Solution) (float64, error) {
	if !sol.IsFeasible(inst) {
		return math.Inf(1), nil
	}
	stats, err := sol.Evaluate(inst)
	if err != nil {
		return math.Inf(1), nil
	}
	return stats.TotalCost, nil
}

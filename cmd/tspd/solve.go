package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/itzg/go-flagsfiller"

	"github.com/windrose-labs/tspdrone/fixedorder"
	"github.com/windrose-labs/tspdrone/greedy"
	"github.com/windrose-labs/tspdrone/improve"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/mipsolver"
	"github.com/windrose-labs/tspdrone/mst"
	"github.com/windrose-labs/tspdrone/murraychu"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/optable"
	"github.com/windrose-labs/tspdrone/tspdio"
)

type solveFlags struct {
	Input     string        `usage:"geometric instance file to solve" yaml:"input"`
	Output    string        `usage:"solution file to write" yaml:"output"`
	Method    string        `usage:"exact|fixedorder|greedy|murraychu|improve" default:"exact" yaml:"method"`
	TimeLimit time.Duration `usage:"time limit for the exact solver" default:"30s" yaml:"timelimit"`
}

func runSolve(logger *slog.Logger, configPath string, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	var f solveFlags
	if err := loadConfig(configPath, &f); err != nil {
		return err
	}
	if err := flagsfiller.New().Fill(fs, &f); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.Input == "" || f.Output == "" {
		return fmt.Errorf("solve: -input and -output are required")
	}

	inFile, err := os.Open(f.Input)
	if err != nil {
		return err
	}
	defer inFile.Close()
	inst, err := tspdio.ReadGeometricInstance(inFile)
	if err != nil {
		return err
	}
	logger.Info("loaded instance", "locations", inst.N(), "method", f.Method)

	sol, err := solve(context.Background(), inst, f.Method, f.TimeLimit, logger)
	if err != nil {
		return err
	}

	stats, err := sol.Evaluate(inst)
	if err != nil {
		logger.Warn("solution is infeasible", "error", err)
	} else {
		logger.Info("solved", "total_cost", stats.TotalCost, "operations", len(sol.Ops))
	}

	outFile, err := os.Create(f.Output)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return tspdio.WriteSolution(outFile, sol, inst)
}

func solve(ctx context.Context, inst instance.Instance, method string, timeLimit time.Duration, logger *slog.Logger) (operation.Solution, error) {
	switch method {
	case "exact":
		table, err := optable.Build(ctx, inst, logger)
		if err != nil {
			return operation.Solution{}, err
		}
		result, err := mipsolver.Solve(ctx, table, inst, timeLimit, logger)
		if err != nil {
			return operation.Solution{}, err
		}
		return result.Solution, nil
	case "fixedorder":
		return fixedorder.Solve(inst, seedOrder(inst), logger)
	case "greedy":
		return greedy.Solve(inst, seedOrder(inst), false, true, logger)
	case "murraychu":
		searcher, err := murraychu.New(inst, seedOrder(inst), logger)
		if err != nil {
			return operation.Solution{}, err
		}
		return searcher.Run()
	case "improve":
		_, sol, err := improve.Run(inst, seedOrder(inst), fixedorder.Solve, improve.DefaultProviders(), logger)
		return sol, err
	default:
		return operation.Solution{}, fmt.Errorf("solve: unknown method %q", method)
	}
}

// seedOrder produces a truck-only visiting order from the instance's MST,
// the starting point every heuristic path refines from. mst.SeedTour's
// walk revisits locations on backtrack, so this keeps only each
// location's first occurrence (its MST preorder position) to get a
// genuine permutation of the non-depot locations.
func seedOrder(inst instance.Instance) []int {
	tree := mst.Build(inst)
	tour := mst.SeedTour(inst, tree)
	seen := make(map[int]bool, len(tour))
	order := make([]int, 0, len(tour))
	for _, loc := range tour {
		if inst.IsDepot(loc) || seen[loc] {
			continue
		}
		seen[loc] = true
		order = append(order, loc)
	}
	return order
}

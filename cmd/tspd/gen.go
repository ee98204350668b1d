package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/itzg/go-flagsfiller"

	"github.com/windrose-labs/tspdrone/genstance"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/tspdio"
)

// genFlags holds the persistent generation toggles shared by every
// gen-* subcommand: seed, alpha, output directory, and the
// date/overwrite/subfolder naming toggles. Bound to a flag.FlagSet via
// flagsfiller, which derives each flag's name from the field name and its
// help text from the usage tag.
type genFlags struct {
	Locations int     `usage:"number of locations including the depot" default:"10" yaml:"locations"`
	Instances int     `usage:"number of instances to generate" default:"1" yaml:"instances"`
	Seed      int64   `usage:"random seed" default:"54321" yaml:"seed"`
	Alpha     float64 `usage:"relative speed of the drone compared to the truck" default:"2" yaml:"alpha"`
	Output    string  `usage:"directory instances are written to" default:"." yaml:"output"`
	Overwrite bool    `usage:"allow overwriting existing output files" yaml:"overwrite"`
	Date      bool    `usage:"include the current date in output filenames" yaml:"date"`
	Subfolder bool    `usage:"create a type-specific subfolder under output" yaml:"subfolder"`
}

type uniformFlags struct {
	genFlags `yaml:",inline"`
	Grid     float64 `usage:"width and height of the generation rectangle" default:"100" yaml:"grid"`
}

type singleCenterFlags struct {
	genFlags `yaml:",inline"`
	Radius   float64 `usage:"radial spread of the customer cloud" default:"50" yaml:"radius"`
}

type doubleCenterFlags struct {
	genFlags `yaml:",inline"`
	Radius1  float64 `usage:"radial spread of the first cluster" default:"50" yaml:"radius1"`
	Radius2  float64 `usage:"radial spread of the second cluster" default:"50" yaml:"radius2"`
	Distance float64 `usage:"distance between the two cluster centers" default:"200" yaml:"distance"`
	Prob     float64 `usage:"probability a customer falls in the first cluster" default:"0.5" yaml:"prob"`
}

// alphaString mirrors GeneratorShell#generate's filename formatting: an
// integral alpha renders without decimals, anything else to 3 places.
func alphaString(alpha float64) string {
	if math.Abs(alpha-math.Round(alpha)) < 0.001 {
		return fmt.Sprintf("%d", int(math.Round(alpha)))
	}
	return fmt.Sprintf("%.3f", alpha)
}

func outputDir(g *genFlags, typeName string) (string, error) {
	dir := g.Output
	if g.Subfolder {
		dir = filepath.Join(dir, fmt.Sprintf("inputs-n%d-alpha_%s-%s", g.Locations, alphaString(g.Alpha), typeName))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func instanceFilename(typeName string, index int, g *genFlags) string {
	prefix := typeName + "-"
	if g.Date {
		prefix += strings.ReplaceAll(time.Now().Format("2006-01-02"), "-", "_") + "-"
	}
	return fmt.Sprintf("%s%d-alpha_%s-n%d.txt", prefix, index, alphaString(g.Alpha), g.Locations)
}

func writeGeneratedInstance(dir, filename string, g *genFlags, inst instance.Instance, driveSpeed, flySpeed float64) error {
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil && !g.Overwrite {
		return fmt.Errorf("%s already exists and -overwrite is not set", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tspdio.WriteGeometricInstance(f, inst, driveSpeed, flySpeed)
}

func runGenUniform(logger *slog.Logger, configPath string, args []string) error {
	fs := flag.NewFlagSet("gen-uniform", flag.ExitOnError)
	var f uniformFlags
	if err := loadConfig(configPath, &f); err != nil {
		return err
	}
	if err := flagsfiller.New().Fill(fs, &f); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	g := &f.genFlags

	dir, err := outputDir(g, "uniform")
	if err != nil {
		return err
	}
	r := rand.New(rand.NewSource(g.Seed))
	flySpeed := g.Alpha
	for i := 1; i <= g.Instances; i++ {
		inst, err := genstance.Uniform(r, g.Locations, f.Grid, f.Grid, 1, flySpeed)
		if err != nil {
			return err
		}
		if err := writeGeneratedInstance(dir, instanceFilename("uniform", i, g), g, inst, 1, flySpeed); err != nil {
			return err
		}
	}
	logger.Info("generated uniform instances", "count", g.Instances, "locations", g.Locations, "dir", dir)
	return nil
}

func runGenSingleCenter(logger *slog.Logger, configPath string, args []string) error {
	fs := flag.NewFlagSet("gen-singlecenter", flag.ExitOnError)
	var f singleCenterFlags
	if err := loadConfig(configPath, &f); err != nil {
		return err
	}
	if err := flagsfiller.New().Fill(fs, &f); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	g := &f.genFlags

	dir, err := outputDir(g, "singlecenter")
	if err != nil {
		return err
	}
	r := rand.New(rand.NewSource(g.Seed))
	flySpeed := g.Alpha
	for i := 1; i <= g.Instances; i++ {
		inst, err := genstance.SingleCenter(r, g.Locations, f.Radius, g.Alpha, 1, flySpeed)
		if err != nil {
			return err
		}
		if err := writeGeneratedInstance(dir, instanceFilename("singlecenter", i, g), g, inst, 1, flySpeed); err != nil {
			return err
		}
	}
	logger.Info("generated single-center instances", "count", g.Instances, "locations", g.Locations, "dir", dir)
	return nil
}

func runGenDoubleCenter(logger *slog.Logger, configPath string, args []string) error {
	fs := flag.NewFlagSet("gen-doublecenter", flag.ExitOnError)
	var f doubleCenterFlags
	if err := loadConfig(configPath, &f); err != nil {
		return err
	}
	if err := flagsfiller.New().Fill(fs, &f); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	g := &f.genFlags

	dir, err := outputDir(g, "doublecenter")
	if err != nil {
		return err
	}
	r := rand.New(rand.NewSource(g.Seed))
	flySpeed := g.Alpha
	for i := 1; i <= g.Instances; i++ {
		inst, err := genstance.DoubleCenter(r, g.Locations, f.Radius1, f.Radius2, g.Alpha, f.Distance, f.Prob, 1, flySpeed)
		if err != nil {
			return err
		}
		if err := writeGeneratedInstance(dir, instanceFilename("doublecenter", i, g), g, inst, 1, flySpeed); err != nil {
			return err
		}
	}
	logger.Info("generated double-center instances", "count", g.Instances, "locations", g.Locations, "dir", dir)
	return nil
}

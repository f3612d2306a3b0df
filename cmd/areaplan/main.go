package main

import (
	"delivery-area-service/internal/adapters/repositories"
	"delivery-area-service/internal/api/dto"
	"delivery-area-service/internal/config"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/services"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// areaplan plans delivery areas offline from a recipients JSON file and
// prints the plan as JSON. Invalid input exits with status 2.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	in         string
	originLat  float64
	originLng  float64
	configPath string
	maxPerArea int
	areas      int
	seed       int64
	noImprove  bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("areaplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "recipients JSON file (required)")
	fs.Float64Var(&o.originLat, "origin-lat", 0, "origin latitude")
	fs.Float64Var(&o.originLng, "origin-lng", 0, "origin longitude")
	fs.StringVar(&o.configPath, "config", "", "planner YAML file")
	fs.IntVar(&o.maxPerArea, "max-per-area", 0, "override max recipients per area")
	fs.IntVar(&o.areas, "areas", 0, "force the number of areas")
	fs.Int64Var(&o.seed, "seed", 0, "override the random seed")
	fs.BoolVar(&o.noImprove, "no-improve", false, "skip 2-opt route improvement")

	if err := fs.Parse(args); err != nil {
		return options{}, fs, err
	}
	if o.in == "" {
		return options{}, fs, errors.New("-in is required")
	}
	return o, fs, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "areaplan:", err)
		}
		return 2
	}

	cfg, err := config.LoadPlanConfig(o.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "areaplan:", err)
		return 1
	}

	// Only flags given explicitly override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-per-area":
			cfg.MaxPerArea = o.maxPerArea
		case "areas":
			k := o.areas
			cfg.AreaCountOverride = &k
		case "seed":
			cfg.Seed = o.seed
		case "no-improve":
			cfg.ImproveRoute = !o.noImprove
		}
	})

	recipients, err := repositories.ReadSeedFile(o.in)
	if err != nil {
		fmt.Fprintln(stderr, "areaplan:", err)
		return 1
	}

	origin := domain.GeoPoint{Lat: o.originLat, Lng: o.originLng}
	plan, err := services.PlanDelivery(recipients, origin, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "areaplan:", err)
		if domain.IsInvalidInput(err) {
			return 2
		}
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.PlanFromDomain(plan)); err != nil {
		fmt.Fprintln(stderr, "areaplan:", err)
		return 1
	}
	return 0
}

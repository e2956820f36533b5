package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"citysim/internal/config"
	"citysim/internal/domain/building"
	"citysim/internal/domain/city"

	"github.com/spf13/cobra"
)

type placement struct {
	Type building.Type
	X    int
	Y    int
}

// parsePlacement reads "type@x,y".
func parsePlacement(raw string) (placement, error) {
	name, coords, ok := strings.Cut(strings.TrimSpace(raw), "@")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: want type@x,y", raw)
	}
	t, err := building.ParseType(name)
	if err != nil {
		return placement{}, fmt.Errorf("placement %q: %w", raw, err)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: want type@x,y", raw)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return placement{}, fmt.Errorf("placement %q: coordinates must be integers", raw)
	}
	return placement{Type: t, X: x, Y: y}, nil
}

func simulateCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		ticks  int
		seed   uint64
		places []string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a city headless for a number of ticks and print its snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.City.Seed = seed
			}
			return runSimulate(cmd.OutOrStdout(), cfg.City, places, ticks)
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 100, "ticks to run after placing buildings")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, overrides city.seed")
	cmd.Flags().StringArrayVarP(&places, "place", "p", nil, "building to place before running, as type@x,y (repeatable)")
	return cmd
}

func runSimulate(out io.Writer, cfg city.Config, places []string, ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", ticks)
	}
	c := city.New(cfg)
	for _, raw := range places {
		p, err := parsePlacement(raw)
		if err != nil {
			return err
		}
		if _, err := c.PlaceBuilding(p.X, p.Y, p.Type); err != nil {
			return fmt.Errorf("place %s at (%d,%d): %w", p.Type, p.X, p.Y, err)
		}
	}
	c.Step(ticks)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Snapshot())
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

// GeocodeCommand creates the geocode command
func GeocodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "geocode",
		Usage: "Resolve an address to coordinates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Usage: "Address to resolve", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			coord, err := app.travel.Geocode(ctx, c.String("address"))
			if err != nil {
				return err
			}
			if coord == nil {
				return fmt.Errorf("address %q could not be resolved", c.String("address"))
			}
			fmt.Fprintf(os.Stdout, "%f,%f\n", coord.Latitude, coord.Longitude)
			return nil
		},
	}
}

// TravelCommand creates the travel command
func TravelCommand() *cli.Command {
	return &cli.Command{
		Name:  "travel",
		Usage: "Show driving time and distance between two coordinates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "origin", Usage: "Origin as lat,lon", Required: true},
			&cli.StringFlag{Name: "destination", Usage: "Destination as lat,lon", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			origin, err := parseLatLon(c.String("origin"))
			if err != nil {
				return fmt.Errorf("origin: %w", err)
			}
			destination, err := parseLatLon(c.String("destination"))
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			metrics, err := app.travel.TravelBetween(ctx, origin, destination)
			if err != nil {
				return err
			}
			if metrics == nil {
				return fmt.Errorf("travel service unavailable")
			}
			fmt.Fprintf(os.Stdout, "duration: %s\ndistance: %s\n",
				formatOptional(metrics.DurationHours, "h"), formatOptional(metrics.DistanceMiles, "mi"))
			return nil
		},
	}
}

func parseLatLon(value string) (entities.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(value, ",")
	if !ok {
		return entities.Coordinate{}, fmt.Errorf("expected lat,lon, got %q", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid longitude: %w", err)
	}
	return entities.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.2f %s", *v, unit)
}

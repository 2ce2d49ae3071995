package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/benjamincrom/hikewithben-search/internal/application/services"
	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search recareas by distance, temperature and dates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "home", Usage: "Home address", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Only recareas whose name contains this text"},
			&cli.IntFlag{Name: "min-distance", Usage: "Minimum distance from home in miles"},
			&cli.IntFlag{Name: "max-distance", Usage: "Maximum distance from home in miles"},
			&cli.IntFlag{Name: "min-temp", Usage: "Minimum daily low in °F"},
			&cli.IntFlag{Name: "max-temp", Usage: "Maximum daily high in °F"},
			&cli.StringFlag{Name: "start-date", Usage: "First date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "finish-date", Usage: "Last date (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "weekends-only", Usage: "Only Friday, Saturday and Sunday"},
			&cli.BoolFlag{Name: "show-only-available", Usage: "Only recareas with reservable facilities"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.search.SearchParams(ctx, searchParams(c))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, result)
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
}

// searchParams maps command flags onto query parameter names
func searchParams(c *cli.Command) map[string]string {
	params := map[string]string{
		services.ParamHomeAddress:  c.String("home"),
		services.ParamNameContains: c.String("name"),
		services.ParamStartDate:    c.String("start-date"),
		services.ParamFinishDate:   c.String("finish-date"),
	}
	for flag, param := range map[string]string{
		"min-distance": services.ParamMinDistance,
		"max-distance": services.ParamMaxDistance,
		"min-temp":     services.ParamMinTemp,
		"max-temp":     services.ParamMaxTemp,
	} {
		if c.IsSet(flag) {
			params[param] = strconv.Itoa(c.Int(flag))
		}
	}
	if c.Bool("weekends-only") {
		params[services.ParamWeekendsOnly] = "true"
	}
	if c.Bool("show-only-available") {
		params[services.ParamShowOnlyAvailable] = "true"
	}
	return params
}

func printJSON(w io.Writer, result *entities.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"home":     result.Home,
		"recareas": result.RecAreas,
		"count":    len(result.RecAreas),
	})
}

func printResult(w io.Writer, result *entities.SearchResult) {
	if result.Home == nil {
		fmt.Fprintln(w, noDataStyle.Render("Home address could not be resolved."))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d recareas near %.4f, %.4f",
		len(result.RecAreas), result.Home.Latitude, result.Home.Longitude)))
	if len(result.RecAreas) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No recareas matched."))
		return
	}

	for _, rec := range result.RecAreas {
		fmt.Fprintf(w, "%s %s\n", nameStyle.Render(rec.Name), metaStyle.Render(fmt.Sprintf("(%s, %d mi)", rec.ID, rec.DistanceFromHome)))
		if len(rec.Weather) > 0 {
			fmt.Fprintf(w, "  %s\n", metaStyle.Render(fmt.Sprintf("%d days in range", len(rec.Weather))))
		}
		for _, facility := range rec.Facilities {
			if len(facility.Reservation) == 0 {
				continue
			}
			dates := make([]string, 0, len(facility.Reservation))
			for d := range facility.Reservation {
				dates = append(dates, d)
			}
			sort.Strings(dates)
			fmt.Fprintf(w, "  %s\n", facility.Name)
			for _, d := range dates {
				fmt.Fprintf(w, "    %s  %g available\n", d, facility.Reservation[d][entities.ReservationTotalKey])
			}
		}
	}
}

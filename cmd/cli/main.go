package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"healthdash/adapters/postgres"
	"healthdash/adapters/stats/engine"
	"healthdash/app"
	"healthdash/domain/indicator"
	"healthdash/internal/config"
	"healthdash/internal/staticdata"
)

// healthdash-cli prints indicator statistics and correlations as terminal
// tables, for operators without the dashboard frontend.
func main() {
	indicatorsFlag := flag.String("indicators", "", "comma-separated indicator ids (required)")
	categoryFlag := flag.String("category", "Total", "category type: ST, Non-ST or Total")
	stateFlag := flag.Int64("state", 0, "state id for district scope (0 = national)")
	correlate := flag.Bool("correlate", false, "also print pairwise correlations")
	flag.Parse()

	ids, err := parseIDs(*indicatorsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -indicators: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	blocked := staticdata.LoadBlockedDistricts(appConfig.Data.BlockedDistrictsFile)
	gateway := postgres.NewDataGateway(db, blocked)
	dashboard := app.NewDashboardService(
		engine.NewAggregationEngine(gateway),
		engine.NewCorrelationEngine(gateway),
	)

	req := indicator.SelectionRequest{
		SelectedIndicators: ids,
		CategoryType:       indicator.CategoryType(*categoryFlag),
	}
	if *stateFlag > 0 {
		req.SelectedState = stateFlag
	}

	ctx := context.Background()
	stats, err := dashboard.Stats(ctx, req)
	if err != nil {
		log.Fatalf("Failed to compute statistics: %v", err)
	}
	fmt.Println(renderStats(stats))

	if *correlate {
		correlations, err := dashboard.Correlations(ctx, req)
		if err != nil {
			log.Fatalf("Failed to compute correlations: %v", err)
		}
		fmt.Println(renderCorrelations(correlations))
	}
}

func parseIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("at least one indicator id is required")
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a numeric id", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func renderStats(stats []indicator.Stat) string {
	t := table.NewWriter()
	t.SetTitle("Indicator Statistics")
	t.AppendHeader(table.Row{"ID", "Indicator", "Min", "Max", "Mean", "Std Dev", "Baseline", "Level"})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.IndicatorID,
			strOrDash(s.IndicatorName),
			strOrDash(s.MinValue),
			strOrDash(s.MaxValue),
			floatOrDash(s.Mean),
			floatOrDash(s.StdDev),
			floatOrDash(s.BaselineAvg),
			s.Level,
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func renderCorrelations(correlations []indicator.Correlation) string {
	t := table.NewWriter()
	t.SetTitle("Pairwise Correlations")
	t.AppendHeader(table.Row{"X", "Y", "r", "Level"})
	for _, c := range correlations {
		t.AppendRow(table.Row{
			strOrDash(c.IndicatorXName),
			strOrDash(c.IndicatorYName),
			floatOrDash(c.Correlation),
			c.Level,
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

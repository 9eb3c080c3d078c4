package client_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/socpulse/maturity/pkg/client"
)

// Example demonstrates basic usage of the maturity client
func Example() {
	// Create a new client
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	// Fetch the current KPI summary
	summary, err := c.Kpi().Current(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Maturity level: %s\n", summary.MaturityLevel)
	if summary.ScoreValue != client.NoValue {
		fmt.Printf("Score: %.0f\n", summary.ScoreValue)
	}
}

// ExampleKpiService_Trend demonstrates fetching a metric time-series
func ExampleKpiService_Trend() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	trend, err := c.Kpi().Trend(context.Background(), "MTTD", "D7")
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range trend.Points {
		if p.Value == client.NoValue {
			fmt.Printf("%s: no data\n", p.Timestamp.Format("2006-01-02"))
			continue
		}
		fmt.Printf("%s: %.1f minutes\n", p.Timestamp.Format("2006-01-02"), p.Value)
	}
}

// ExampleKpiService_IncidentsByCategory demonstrates the category breakdown
func ExampleKpiService_IncidentsByCategory() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	incidents, err := c.Kpi().IncidentsByCategory(context.Background(), "D7")
	if err != nil {
		log.Fatal(err)
	}

	for _, cat := range incidents.Categories {
		fmt.Printf("%s: %d alerts\n", cat.Category, cat.Count)
	}
}

// ExampleRecommendationService_Generate demonstrates generating a fresh
// recommendation set from the current KPI state
func ExampleRecommendationService_Generate() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	recs, err := c.Recommendations().Generate(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, rec := range recs {
		fmt.Printf("[%s] %s\n", rec.Priority, rec.Title)
	}
}

// ExampleSnapshotService_Backfill demonstrates recomputing historical windows
func ExampleSnapshotService_Backfill() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	to := time.Now().UTC().Truncate(time.Hour)
	from := to.Add(-24 * time.Hour)

	result, err := c.Snapshots().Backfill(context.Background(), from, to)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Recomputed %d hourly windows\n", result.WindowsProcessed)
}

// ExampleClient_Healthz demonstrates checking service health
func ExampleClient_Healthz() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	if err := c.Healthz(context.Background()); err != nil {
		log.Fatal(err)
	}

	fmt.Println("service is up")
}

// Command ppsf-estimate prints a single price per square foot estimate.
//
//	ppsf-estimate -model configs/model.json -city "Royal Oak" -zip 48067 -sqft 1800
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rewired-gh/ppsf/internal/config"
	"github.com/rewired-gh/ppsf/internal/estimator"
	"github.com/rewired-gh/ppsf/internal/logger"
	"github.com/rewired-gh/ppsf/internal/models"
)

var (
	configPath    = flag.String("config", "", "Path to configuration file (optional)")
	modelPath     = flag.String("model", "configs/model.json", "Path to model artifact, used without -config")
	referencePath = flag.String("reference", "", "Path to reference tables, used without -config (default built-in)")
	noClamp       = flag.Bool("no-clamp", false, "Report negative price per square foot as predicted")
	showFeatures  = flag.Bool("features", false, "Print the feature vector")
	listChoices   = flag.Bool("list", false, "List cities, zip codes and property types, then exit")

	beds         = flag.Int("beds", 3, "Number of bedrooms (1-10)")
	baths        = flag.Float64("baths", 2.0, "Number of bathrooms (1.0-10.0)")
	sqft         = flag.Int("sqft", 2000, "Total living area in square feet (300-10000)")
	lot          = flag.Int("lot", 5000, "Lot size in square feet (500-30000)")
	hoa          = flag.Int("hoa", 0, "HOA per month in dollars (0-1000)")
	age          = flag.Int("age", 20, "Home age in years (0-150)")
	quarter      = flag.String("quarter", "Q1", "Quarter sold: Q1-Q4")
	city         = flag.String("city", "", "City (default first city)")
	zip          = flag.String("zip", "", "ZIP code (default first ZIP of the city)")
	propertyType = flag.String("type", "", "Property type (default first type)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	service, err := estimator.Open(ctx, cfg)
	if err != nil {
		return err
	}
	tables := service.Tables()

	if *listChoices {
		for _, c := range tables.Cities() {
			fmt.Printf("%-18s %s\n", c, strings.Join(tables.Zips(c), ", "))
		}
		fmt.Println()
		for _, t := range tables.PropertyTypes() {
			fmt.Println(t)
		}
		return nil
	}

	q, err := models.ParseSaleQuarter(*quarter)
	if err != nil {
		return err
	}

	attrs := tables.DefaultAttributes()
	attrs.Beds = *beds
	attrs.Baths = *baths
	attrs.LivingAreaSqft = *sqft
	attrs.LotSizeSqft = *lot
	attrs.HOAMonthly = *hoa
	attrs.HomeAgeYears = *age
	attrs.SaleQuarter = q
	if *city != "" {
		attrs.City = *city
		attrs.ZipCode = tables.FirstZip(*city)
	}
	if *zip != "" {
		attrs.ZipCode = *zip
	}
	if *propertyType != "" {
		attrs.PropertyType = *propertyType
	}

	if *showFeatures {
		named, err := service.Features(attrs)
		if err != nil {
			return err
		}
		for _, f := range named {
			fmt.Printf("%-22s %g\n", f.Name, f.Value)
		}
		fmt.Println()
	}

	est, err := service.Estimate(ctx, attrs)
	if err != nil {
		return err
	}

	fmt.Printf("Estimated Avg PPSF Nearby (based on ZIP): %s\n", models.FormatUSD(est.AvgPPSFNearby))
	fmt.Printf("Estimated Price per SqFt: %s\n", models.FormatUSD(est.Result.PricePerSqft))
	fmt.Printf("Estimated Total Price: %s\n", models.FormatUSD(est.Result.TotalPrice))
	return nil
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.ValidateModel(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}

	return &config.Config{
		Model: config.ModelConfig{
			Source:        config.ModelSourceFile,
			Path:          *modelPath,
			ClampNegative: !*noClamp,
		},
		Reference: config.ReferenceConfig{Path: *referencePath},
		Logging:   config.LoggingConfig{Level: "warn", Format: "text"},
	}, nil
}

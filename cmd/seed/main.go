package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ikkim/foodhub-backend/config"
	"github.com/ikkim/foodhub-backend/internal/db"
	"github.com/ikkim/foodhub-backend/internal/middleware"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"github.com/ikkim/foodhub-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

func main() {
	sheet := flag.String("sheet", defaultSheet, "sheet holding the menu rows")
	yes := flag.Bool("yes", false, "import without asking for confirmation")
	adminToken := flag.String("admin-token", "", "print an admin access token for this email and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed [-sheet menu] [-yes] <xlsx_file_path>")
		fmt.Fprintln(os.Stderr, "       go run ./cmd/seed -admin-token ops@example.com")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: "console", EnableColor: true})

	if *adminToken != "" {
		tokens, err := util.GenerateTokenPair(0, *adminToken, middleware.RoleAdmin, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.AccessTokenExpiry)
		if err != nil {
			log.Fatal("Failed to generate admin token:", err)
		}
		fmt.Println(tokens.AccessToken)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s (sheet %q)\n", filePath, *sheet)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	rows, skipped, err := readMenuRows(f, *sheet)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, reason := range skipped {
		fmt.Printf("  skipped %s\n", reason)
	}
	fmt.Printf("Rows to import: %d (skipped %d)\n", len(rows), len(skipped))

	// 사용자 확인
	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := importMenu(ctx, db.GetDB(), rows)
	if err != nil {
		log.Fatal("Import failed, nothing was saved: ", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  restaurants: %d\n", stats.Restaurants)
	fmt.Printf("  branches:    %d\n", stats.Branches)
	fmt.Printf("  categories:  %d\n", stats.Categories)
	fmt.Printf("  products:    %d\n", stats.Products)
	fmt.Printf("  overrides:   %d\n", stats.Overrides)
	fmt.Printf("  taxes:       %d\n", stats.Taxes)
}

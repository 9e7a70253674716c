package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/seed"
	"github.com/foodgram/foodgram-backend/pkg/logger"
)

func main() {
	migrate := flag.Bool("migrate", true, "run migrations (and default tags) before importing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: seed [-migrate=false] <ingredients.csv|.json|.xlsx>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: cfg.LogLevel(), Format: cfg.Log.Format})

	database, err := db.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if *migrate {
		if err := db.Migrate(database); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
	}

	fmt.Printf("Reading ingredients: %s\n", filePath)
	ingredients, err := seed.ReadIngredients(filePath)
	if err != nil {
		log.Fatal("Failed to read ingredients:", err)
	}
	fmt.Printf("Rows read: %d\n", len(ingredients))

	ingredientService := service.NewIngredientService(repository.NewIngredientRepository(database))
	inserted, err := ingredientService.Import(ingredients)
	if err != nil {
		log.Fatal("Failed to import ingredients:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  New ingredients: %d\n", inserted)
	fmt.Printf("  Skipped (blank, duplicate or existing): %d\n", int64(len(ingredients))-inserted)
}

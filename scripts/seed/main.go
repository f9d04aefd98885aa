// Seed creates todos through the item service. Run from project root: go run ./scripts/seed -n 1000
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"todo-api/internal/cache"
	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/repository"
	"todo-api/internal/store"
	"todo-api/internal/todo"
)

func main() {
	n := flag.Int("n", 1000, "number of todos to create")
	flag.Parse()
	_ = godotenv.Load(".env")

	ctx := context.Background()
	cfg := config.Get()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Database not available:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, cfg.TodosTable); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	items, closeStore, err := openStore(ctx, cfg, db)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Redis not available:", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := todo.NewService(items, todo.WithTimeout(cfg.StoreTimeout))
	start := time.Now()
	if err := seed(ctx, svc, *n); err != nil {
		fmt.Fprintln(os.Stderr, "\nCreate failed:", err)
		os.Exit(1)
	}
	fmt.Printf("\nDone: %d todos in %v\n", *n, time.Since(start))
}

// openStore returns the Postgres store, behind the list cache when Redis is
// configured so seeded writes drop the list served by GET /todos.
func openStore(ctx context.Context, cfg *config.Config, db *sql.DB) (store.Store, func(), error) {
	var items store.Store = repository.NewItems(db, cfg.TodosTable)
	if !cfg.CacheEnabled() {
		return items, func() {}, nil
	}
	client, err := cache.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	items = cache.Wrap(items, client, time.Duration(cfg.CacheTTL)*time.Second)
	return items, func() { _ = client.Close() }, nil
}

func seed(ctx context.Context, svc *todo.Service, n int) error {
	for i := 1; i <= n; i++ {
		body, _ := json.Marshal(map[string]string{"text": fmt.Sprintf("Todo %d", i)})
		if _, err := svc.Create(ctx, body); err != nil {
			return err
		}
		if i%100 == 0 || i == n {
			fmt.Printf("\rInserted %d / %d", i, n)
		}
	}
	return nil
}

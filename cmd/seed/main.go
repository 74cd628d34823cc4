// Seeds the database with a small set of sample customers and orders so the
// segmentation and campaign endpoints have data to work against.
package main

import (
	"context"
	"log"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/db"

	"github.com/joho/godotenv"
)

type seedCustomer struct {
	name       string
	email      string
	totalSpent float64
	visitCount int
	lastActive time.Time
	orders     []float64
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[SEED] No .env file found, relying on system env vars")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	now := time.Now().UTC()
	customers := []seedCustomer{
		{"Aarav Shah", "aarav@example.com", 12500, 14, now.AddDate(0, 0, -2), []float64{4200, 8300}},
		{"Meera Iyer", "meera@example.com", 980, 3, now.AddDate(0, -4, 0), []float64{980}},
		{"Rohan Gupta", "rohan@example.com", 23000, 27, now.AddDate(0, 0, -1), []float64{11000, 12000}},
		{"Sana Khan", "sana@example.com", 0, 1, now.AddDate(0, -7, 0), nil},
		{"Vikram Rao", "vikram@example.com", 5600, 9, now.AddDate(0, 0, -12), []float64{1600, 4000}},
	}

	for _, c := range customers {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO customers (name, email, total_spent, visit_count, last_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET
				total_spent = EXCLUDED.total_spent,
				visit_count = EXCLUDED.visit_count,
				last_active = EXCLUDED.last_active
			RETURNING id`,
			c.name, c.email, c.totalSpent, c.visitCount, c.lastActive,
		).Scan(&id)
		if err != nil {
			log.Fatalf("seed customer %s: %v", c.email, err)
		}

		for i, amount := range c.orders {
			_, err := pool.Exec(ctx, `
				INSERT INTO orders (customer_id, amount, order_date)
				VALUES ($1, $2, $3)`,
				id, amount, now.AddDate(0, 0, -i*7),
			)
			if err != nil {
				log.Fatalf("seed order for %s: %v", c.email, err)
			}
		}

		log.Printf("seeded %s (id=%d, %d orders)", c.email, id, len(c.orders))
	}

	log.Println("done")
}

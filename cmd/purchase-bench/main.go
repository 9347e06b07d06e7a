// purchase-bench drives a running server with concurrent purchases for
// one item and checks that exactly the available stock is sold, never
// more. It exercises the whole stack through the client SDK: login,
// item setup, concurrent buys, final stock verification.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/client"
)

const (
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	baseURL := getenv("BENCH_BASE_URL", "http://localhost:8080")
	adminEmail := getenv("ADMIN_EMAIL", "admin@stockpoint.local")
	adminPassword := getenv("ADMIN_PASSWORD", "admin123")

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	admin := client.New(baseURL, client.NewSessionStore(""), nil, log)
	if _, err := admin.StaffLogin(ctx, adminEmail, adminPassword); err != nil {
		fatal("admin login failed: %v", err)
	}

	run := uuid.NewString()[:8]

	item, err := admin.CreateItem(ctx, client.ItemInput{
		Name:      "bench-item-" + run,
		Category:  "bench",
		Quantity:  initialStock,
		UnitPrice: decimal.NewFromFloat(9.99),
	})
	if err != nil {
		fatal("create item failed: %v", err)
	}

	customer, err := admin.CreateCustomer(ctx, client.CustomerInput{
		Name:  "Bench Shopper",
		Email: fmt.Sprintf("bench-%s@stockpoint.local", run),
		Pin:   "4321",
	})
	if err != nil {
		fatal("create customer failed: %v", err)
	}

	shopper := client.New(baseURL, client.NewSessionStore(""), nil, log)
	if _, err := shopper.CustomerLogin(ctx, customer.Email, "4321"); err != nil {
		fatal("customer login failed: %v", err)
	}
	orchestrator := client.NewPurchaseOrchestrator(shopper)

	var successCount, soldOutCount, otherCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := orchestrator.Purchase(ctx, item, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case isSoldOut(err):
				soldOutCount.Add(1)
			default:
				otherCount.Add(1)
				log.Warn("unexpected purchase failure", zap.Error(err))
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	final, err := shopper.GetItem(ctx, item.ID)
	if err != nil {
		fatal("final item read failed: %v", err)
	}

	success := successCount.Load()
	soldOut := soldOutCount.Load()
	other := otherCount.Load()

	fmt.Println("========== PURCHASE BENCH RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", soldOut)
	fmt.Printf("Other Failures:   %d\n", other)
	fmt.Printf("Final Stock:      %d\n", final.Quantity)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("============================================")

	pass := true
	if success != initialStock || soldOut != totalRequests-initialStock || other != 0 {
		pass = false
		fmt.Printf("FAIL: expected %d success/%d sold out, got %d/%d (+%d other)\n",
			initialStock, totalRequests-initialStock, success, soldOut, other)
	}
	if final.Quantity != 0 {
		pass = false
		fmt.Printf("FAIL: expected final stock 0, got %d\n", final.Quantity)
	}
	if pass {
		fmt.Println("PASS: stock depleted exactly, no overselling")
	}

	// Cleanup so reruns start clean.
	if err := admin.DeleteItem(ctx, item.ID); err != nil {
		log.Warn("cleanup item failed", zap.Error(err))
	}
	if err := admin.DeleteCustomer(ctx, customer.ID); err != nil {
		log.Warn("cleanup customer failed", zap.Error(err))
	}

	if !pass {
		os.Exit(1)
	}
}

func isSoldOut(err error) bool {
	var rule *client.BusinessRuleError
	return errors.As(err, &rule) && rule.InsufficientStock()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/shopstock/backend-go/internal/domain"
)

// CSV field conventions:
//   available_sizes  "S|M|L"
//   initial_stock    "S=10|M=20|L=15"
//   prices           "S=150:120|M=150:120"  (retail:wholesale per size)

func seedMaster(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}
	dataDir := c.String("data-dir")

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Seeding products and customers...")

	if err := seedProducts(ctx, tx, filepath.Join(dataDir, "products.csv")); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := seedCustomers(ctx, tx, filepath.Join(dataDir, "customers.csv")); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Master data seeding completed successfully!")
	return nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding products from %s\n", filePath)

	query := `
		INSERT INTO products (
			product_id, product_name, category, available_sizes,
			initial_stock_by_size, prices_by_size, retail_price, wholesale_price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (product_id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			category = EXCLUDED.category,
			available_sizes = EXCLUDED.available_sizes,
			initial_stock_by_size = EXCLUDED.initial_stock_by_size,
			prices_by_size = EXCLUDED.prices_by_size,
			retail_price = EXCLUDED.retail_price,
			wholesale_price = EXCLUDED.wholesale_price,
			updated_at = NOW()
	`

	return forEachRecord(filePath, func(row map[string]string) error {
		sizes := splitList(row["available_sizes"])
		sizesJSON, err := json.Marshal(sizes)
		if err != nil {
			return err
		}

		stock, err := parseIntPairs(row["initial_stock"])
		if err != nil {
			return fmt.Errorf("bad initial_stock for %s: %w", row["product_id"], err)
		}
		stockJSON, err := json.Marshal(stock)
		if err != nil {
			return err
		}

		prices, err := parsePricePairs(row["prices"])
		if err != nil {
			return fmt.Errorf("bad prices for %s: %w", row["product_id"], err)
		}
		pricesJSON, err := json.Marshal(prices)
		if err != nil {
			return err
		}

		retail := parseFloat(row["retail_price"])
		wholesale := parseFloat(row["wholesale_price"])

		_, err = tx.ExecContext(ctx, query,
			row["product_id"],
			row["product_name"],
			row["category"],
			sizesJSON,
			stockJSON,
			pricesJSON,
			retail,
			wholesale,
		)
		return err
	})
}

func seedCustomers(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding customers from %s\n", filePath)

	query := `
		INSERT INTO customers (
			customer_id, customer_name, contact_person, email, phone, address,
			customer_type, discount_rate, credit_limit, payment_terms,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (customer_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			contact_person = EXCLUDED.contact_person,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			customer_type = EXCLUDED.customer_type,
			discount_rate = EXCLUDED.discount_rate,
			credit_limit = EXCLUDED.credit_limit,
			payment_terms = EXCLUDED.payment_terms,
			updated_at = NOW()
	`

	return forEachRecord(filePath, func(row map[string]string) error {
		customerType := row["customer_type"]
		if customerType != domain.CustomerTypeRetail && customerType != domain.CustomerTypeWholesale {
			return fmt.Errorf("unknown customer_type %q for %s", customerType, row["customer_id"])
		}

		_, err := tx.ExecContext(ctx, query,
			row["customer_id"],
			row["customer_name"],
			row["contact_person"],
			row["email"],
			row["phone"],
			row["address"],
			customerType,
			parseFloat(row["discount_rate"]),
			parseFloat(row["credit_limit"]),
			row["payment_terms"],
		)
		return err
	})
}

func seedStockLogs(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}
	filePath := filepath.Join(c.String("data-dir"), "stock_logs.csv")

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Printf("Seeding stock logs from %s\n", filePath)

	query := `
		INSERT INTO stock_log (log_id, product_id, size, quantity_change, change_type, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (log_id) DO NOTHING
	`

	err = forEachRecord(filePath, func(row map[string]string) error {
		logID := row["log_id"]
		if logID == "" {
			logID = "LOG-" + uuid.NewString()
		}

		size := row["size"]
		if size == "" {
			size = domain.DefaultSize
		}

		change, err := strconv.Atoi(row["quantity_change"])
		if err != nil {
			return fmt.Errorf("bad quantity_change for %s: %w", row["product_id"], err)
		}

		_, err = tx.ExecContext(ctx, query, logID, row["product_id"], size, change, row["type"])
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to seed stock logs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Stock log seeding completed successfully!")
	return nil
}

// forEachRecord streams a headered CSV file, handing each record to fn as a
// header-keyed map.
func forEachRecord(filePath string, fn func(row map[string]string) error) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(record[i])
			}
		}

		if err := fn(row); err != nil {
			return err
		}
	}

	return nil
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, "|")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}

	return list
}

func parseIntPairs(value string) (map[string]int, error) {
	pairs := make(map[string]int)
	for _, part := range splitList(value) {
		key, raw, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected size=quantity, got %q", part)
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		pairs[key] = qty
	}

	return pairs, nil
}

func parsePricePairs(value string) (map[string]domain.SizePrice, error) {
	pairs := make(map[string]domain.SizePrice)
	for _, part := range splitList(value) {
		key, raw, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected size=retail:wholesale, got %q", part)
		}
		retailRaw, wholesaleRaw, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("expected retail:wholesale, got %q", raw)
		}

		retail, err := strconv.ParseFloat(retailRaw, 64)
		if err != nil {
			return nil, err
		}
		wholesale, err := strconv.ParseFloat(wholesaleRaw, 64)
		if err != nil {
			return nil, err
		}

		pairs[key] = domain.SizePrice{RetailPrice: retail, WholesalePrice: wholesale}
	}

	return pairs, nil
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// Package inventory derives current stock levels from each product's
// baseline plus the append-only stock change log. Current stock is never
// stored; it is always recomputed by folding the log, which keeps readers
// consistent no matter how the entries are ordered.
package inventory

import "github.com/andresuchdata/shopstock/backend-go/internal/domain"

// Reconcile computes derived stock for every product. For each size,
// currentStock = initialStockBySize[size] + sum of matching log quantity
// changes. Entries referencing an unknown product, or a size the product does
// not carry, are excluded from the sums. The fold is a plain sum, so the
// result is independent of entry order and calling Reconcile twice with the
// same inputs yields identical output.
func Reconcile(products []domain.Product, entries []domain.StockLogEntry) []domain.ProductWithStock {
	deltas := deltasByProductSize(entries)

	result := make([]domain.ProductWithStock, 0, len(products))
	for _, product := range products {
		result = append(result, applyDeltas(product, deltas[product.ProductID]))
	}

	return result
}

// StockFor derives stock for a single product from the full log.
func StockFor(product domain.Product, entries []domain.StockLogEntry) domain.ProductWithStock {
	deltas := deltasByProductSize(entries)

	return applyDeltas(product, deltas[product.ProductID])
}

// StockMap flattens reconciled products into {productId: {size: stock}},
// the shape the order pricer validates carts against.
func StockMap(products []domain.ProductWithStock) map[string]map[string]int {
	stock := make(map[string]map[string]int, len(products))
	for _, p := range products {
		sizes := make(map[string]int, len(p.StockBySize))
		for size, qty := range p.StockBySize {
			sizes[size] = qty
		}
		stock[p.ProductID] = sizes
	}

	return stock
}

func deltasByProductSize(entries []domain.StockLogEntry) map[string]map[string]int {
	deltas := make(map[string]map[string]int)
	for _, entry := range entries {
		sizes, ok := deltas[entry.ProductID]
		if !ok {
			sizes = make(map[string]int)
			deltas[entry.ProductID] = sizes
		}
		sizes[entry.Size] += entry.QuantityChange
	}

	return deltas
}

func applyDeltas(product domain.Product, deltas map[string]int) domain.ProductWithStock {
	stockBySize := make(domain.StockBySize, len(product.Sizes()))
	totalStock := 0

	for _, size := range product.Sizes() {
		current := product.InitialStockBySize[size] + deltas[size]
		stockBySize[size] = current
		totalStock += current
	}

	return domain.ProductWithStock{
		Product:     product,
		StockBySize: stockBySize,
		TotalStock:  totalStock,
	}
}

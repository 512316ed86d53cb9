// Package csvfile loads the inventory and customer catalogs from CSV
// files into an in-memory catalog. The expected headers are
// "item_id,stock,weight" and "customer_id,name"; column order beyond the
// header row is taken from the header itself.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nexustrade/orderflow/pkg/adapters/memory"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// Load reads both catalog files and returns a ready catalog.
func Load(inventoryPath, customersPath string) (*memory.Catalog, error) {
	items, err := loadInventory(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("loading inventory catalog: %w", err)
	}

	customers, err := loadCustomers(customersPath)
	if err != nil {
		return nil, fmt.Errorf("loading customer catalog: %w", err)
	}

	return memory.NewCatalog(items, customers), nil
}

func loadInventory(path string) (map[string]ports.ItemInfo, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idCol, ok := header["item_id"]
	if !ok {
		return nil, fmt.Errorf("%s: missing item_id column", path)
	}
	stockCol, ok := header["stock"]
	if !ok {
		return nil, fmt.Errorf("%s: missing stock column", path)
	}
	weightCol, ok := header["weight"]
	if !ok {
		return nil, fmt.Errorf("%s: missing weight column", path)
	}

	items := make(map[string]ports.ItemInfo, len(rows))
	for i, row := range rows {
		stock, err := strconv.Atoi(row[stockCol])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid stock %q", path, i+2, row[stockCol])
		}
		weight, err := strconv.ParseFloat(row[weightCol], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid weight %q", path, i+2, row[weightCol])
		}
		items[row[idCol]] = ports.ItemInfo{Stock: stock, Weight: weight}
	}
	return items, nil
}

func loadCustomers(path string) ([]string, error) {
	rows, header, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idCol, ok := header["customer_id"]
	if !ok {
		return nil, fmt.Errorf("%s: missing customer_id column", path)
	}

	customers := make([]string, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row[idCol])
	}
	return customers, nil
}

// readAll parses a CSV file into data rows plus a header name -> index map.
func readAll(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	headerRow, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, nil, err
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[name] = i
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return rows, header, nil
}

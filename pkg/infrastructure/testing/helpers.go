package testing

import (
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/memory"
)

// Row builds a price row, parsing the raw price the way the loaders do
func Row(repair, quality, brand, series, model, price string) entities.PriceRow {
	return entities.PriceRow{
		Repair:  repair,
		Quality: quality,
		Brand:   brand,
		Series:  series,
		Model:   model,
		Price:   entities.ParsePrice(price),
	}
}

// RepairShopRows returns a small repair shop catalog covering every
// filtering situation: unpriced rows ("0" and empty), a late duplicate with
// a different price, repairs offered for a single brand, and a model
// offered in one quality only.
func RepairShopRows() []entities.PriceRow {
	return []entities.PriceRow{
		Row("Écran", "Origine", "Apple", "iPhone", "iPhone 12", "89"),
		Row("Écran", "Compatible", "Apple", "iPhone", "iPhone 12", "0"),
		Row("Écran", "Origine", "Apple", "iPhone", "iPhone 13 Mini", "119"),
		Row("Écran", "Compatible", "Apple", "iPhone", "iPhone 13 Mini", "79"),
		Row("Écran", "Origine", "Apple", "iPhone", "iPhone 12 Pro", "129"),
		Row("Batterie", "Origine", "Apple", "iPhone", "iPhone 12", "59"),
		Row("Batterie", "Compatible", "Apple", "iPhone", "iPhone 13", "49"),
		Row("Écran", "Origine", "Apple", "iPad", "iPad 9", "149"),
		Row("Écran", "Origine", "Samsung", "Galaxy S", "Galaxy S21", "139"),
		Row("Écran", "Compatible", "Samsung", "Galaxy A", "Galaxy A52", "69"),
		Row("Connecteur", "Compatible", "Samsung", "Galaxy A", "Galaxy A52", "39"),
		Row("Connecteur", "Compatible", "Xiaomi", "Redmi", "Redmi Note 10", "35"),
		Row("Batterie", "Origine", "Samsung", "Galaxy S", "Galaxy S22", ""),
		Row("Écran", "Origine", "Apple", "iPhone", "iPhone 12", "95"),
	}
}

// BuildRepairShopTestData loads RepairShopRows into a priced repository
func BuildRepairShopTestData() *memory.PriceRepository {
	return memory.NewPriceRepository(RepairShopRows(), true)
}

// BuildTwoQualityTestData is the smallest dataset with one priced and one
// unpriced quality for the same device
func BuildTwoQualityTestData() *memory.PriceRepository {
	return memory.NewPriceRepository([]entities.PriceRow{
		Row("Écran", "Origine", "Apple", "iPhone", "iPhone 12", "89"),
		Row("Écran", "Compatible", "Apple", "iPhone", "iPhone 12", "0"),
	}, true)
}

// CompleteSelections builds selections for all five fields
func CompleteSelections(repair, quality, brand, series, model string) entities.Selections {
	return entities.NewSelections(map[entities.Field]string{
		entities.Repair:  repair,
		entities.Quality: quality,
		entities.Brand:   brand,
		entities.Series:  series,
		entities.Model:   model,
	})
}

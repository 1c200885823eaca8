package services

import (
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/memory"
)

func newRepo(rows []entities.PriceRow) *memory.PriceRepository {
	return memory.NewPriceRepository(rows, true)
}

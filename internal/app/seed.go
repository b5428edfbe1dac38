package app

import (
	"fmt"

	"github.com/commerce-labs/placement/internal/service/models/customer"
	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Seed data for the in-memory read adapters comes from the config file.
// A real deployment swaps the adapters for remote directory and catalog
// clients instead.

type customerSeed struct {
	ID    string `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type productSeed struct {
	ID            string `mapstructure:"id"`
	Name          string `mapstructure:"name"`
	Price         string `mapstructure:"price"`
	StockQuantity int    `mapstructure:"stock_quantity"`
}

func mustLoadCustomerSeed() []customer.Customer {
	var seeds []customerSeed
	if err := viper.UnmarshalKey("seed.customers", &seeds); err != nil {
		panic(fmt.Sprintf("failed to read customer seed: %v", err))
	}

	customers := make([]customer.Customer, len(seeds))
	for i, s := range seeds {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			panic(fmt.Sprintf("bad customer seed id %q: %v", s.ID, err))
		}
		customers[i] = customer.Customer{
			ID:    id,
			Name:  s.Name,
			Email: s.Email,
		}
	}

	return customers
}

func mustLoadProductSeed() []product.Product {
	var seeds []productSeed
	if err := viper.UnmarshalKey("seed.products", &seeds); err != nil {
		panic(fmt.Sprintf("failed to read product seed: %v", err))
	}

	products := make([]product.Product, len(seeds))
	for i, s := range seeds {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			panic(fmt.Sprintf("bad product seed id %q: %v", s.ID, err))
		}
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			panic(fmt.Sprintf("bad product seed price %q: %v", s.Price, err))
		}
		products[i] = product.Product{
			ID:            id,
			Name:          s.Name,
			Price:         price,
			StockQuantity: s.StockQuantity,
		}
	}

	return products
}

package usecase

import (
	"github.com/chatcart/backend/internal/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dedupe collapses products sharing an ID. The last occurrence supplies the
// fields and the first occurrence fixes the position.
func Dedupe(products []domain.Product) []domain.Product {
	byID := orderedmap.New[string, domain.Product](len(products))
	for _, product := range products {
		byID.Set(product.ID, product)
	}

	unique := make([]domain.Product, 0, byID.Len())
	for pair := byID.Oldest(); pair != nil; pair = pair.Next() {
		unique = append(unique, pair.Value)
	}
	return unique
}

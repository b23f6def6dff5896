package usecase

import (
	"strings"

	"github.com/chatcart/backend/internal/domain"
)

const (
	defaultPlaceholderImage = "https://placehold.co/300x300?text=Sin+imagen"
	missingLink             = "#"
)

// NormalizerConfig holds the deployment-specific defaults of ProductNormalizer
type NormalizerConfig struct {
	PlaceholderImage string
	// StorefrontURL makes links absolute; empty keeps them relative
	StorefrontURL string
	Formatter     *PriceFormatter
}

// ProductNormalizer maps raw catalog records to product cards
type ProductNormalizer struct {
	placeholderImage string
	storefrontURL    string
	formatter        *PriceFormatter
}

// NewProductNormalizer creates a normalizer. A nil Formatter uses es-AR pricing.
func NewProductNormalizer(config NormalizerConfig) *ProductNormalizer {
	placeholder := config.PlaceholderImage
	if placeholder == "" {
		placeholder = defaultPlaceholderImage
	}

	formatter := config.Formatter
	if formatter == nil {
		// es-AR is always supported
		formatter, _ = NewPriceFormatter(PricingConfig{})
	}

	return &ProductNormalizer{
		placeholderImage: placeholder,
		storefrontURL:    strings.TrimRight(config.StorefrontURL, "/"),
		formatter:        formatter,
	}
}

// Normalize builds the product card for record. Only a record without items
// is rejected; every other missing field gets a default.
func (n *ProductNormalizer) Normalize(record domain.CatalogProduct) (domain.Product, bool) {
	if _, ok := record.FirstItem(); !ok {
		return domain.Product{}, false
	}

	image, ok := record.FirstImageURL()
	if !ok {
		image = n.placeholderImage
	}

	return domain.Product{
		ID:    record.ProductID,
		Name:  record.ProductName,
		Image: image,
		Price: n.price(record),
		Link:  n.link(record.LinkText),
	}, true
}

// price prefers a seller with stock, then the first seller
func (n *ProductNormalizer) price(record domain.CatalogProduct) string {
	seller, ok := record.FirstAvailableSeller()
	if !ok {
		seller, ok = record.FirstSeller()
	}
	if !ok {
		return n.formatter.Unavailable()
	}
	return n.formatter.Format(seller.CommertialOffer.Price)
}

func (n *ProductNormalizer) link(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return missingLink
	}
	return n.storefrontURL + "/" + slug + "/p"
}

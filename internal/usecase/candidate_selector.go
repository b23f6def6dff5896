package usecase

import (
	"sort"
	"strings"

	"github.com/chatcart/backend/internal/domain"
)

// candidate is a catalog record under consideration for a term
type candidate struct {
	record    domain.CatalogProduct
	preferred bool
	price     float64
	inStock   bool
}

// CandidateSelector picks the single best record returned for a search term
type CandidateSelector struct {
	preferredBrand string
}

// NewCandidateSelector creates a selector that ranks records whose name
// contains preferredBrand first. An empty brand disables the preference.
func NewCandidateSelector(preferredBrand string) *CandidateSelector {
	return &CandidateSelector{
		preferredBrand: strings.ToLower(strings.TrimSpace(preferredBrand)),
	}
}

// SelectBest returns the best in-stock record. Preferred-brand records rank
// ahead of the rest; ties keep their input order. It reports false when
// records is empty or nothing is in stock.
func (s *CandidateSelector) SelectBest(records []domain.CatalogProduct) (domain.CatalogProduct, bool) {
	candidates := make([]candidate, 0, len(records))
	for _, record := range records {
		c := s.newCandidate(record)
		if !c.inStock {
			continue
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return domain.CatalogProduct{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].preferred && !candidates[j].preferred
	})

	return candidates[0].record, true
}

func (s *CandidateSelector) newCandidate(record domain.CatalogProduct) candidate {
	c := candidate{
		record:    record,
		preferred: s.isPreferred(record.ProductName),
	}
	if seller, ok := record.FirstAvailableSeller(); ok {
		c.inStock = true
		c.price = seller.CommertialOffer.Price
	}
	return c
}

func (s *CandidateSelector) isPreferred(name string) bool {
	if s.preferredBrand == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), s.preferredBrand)
}

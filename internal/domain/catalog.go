package domain

// CatalogProduct is one product record as returned by the VTEX catalog search
// endpoint. Only the fields the pipeline reads are declared; every nested
// collection may be empty or missing in the payload.
type CatalogProduct struct {
	ProductID   string        `json:"productId"`
	ProductName string        `json:"productName"`
	Brand       string        `json:"brand,omitempty"`
	LinkText    string        `json:"linkText"`
	Link        string        `json:"link,omitempty"`
	Items       []CatalogItem `json:"items"`
}

// CatalogItem is a SKU of a catalog product
type CatalogItem struct {
	ItemID  string          `json:"itemId"`
	Name    string          `json:"name,omitempty"`
	Images  []CatalogImage  `json:"images"`
	Sellers []CatalogSeller `json:"sellers"`
}

// CatalogImage is a SKU image
type CatalogImage struct {
	ImageID    string `json:"imageId,omitempty"`
	ImageURL   string `json:"imageUrl"`
	ImageLabel string `json:"imageLabel,omitempty"`
}

// CatalogSeller carries the commercial offer of one seller for a SKU.
// The misspelled JSON key is what the VTEX API actually returns.
type CatalogSeller struct {
	SellerID        string          `json:"sellerId"`
	SellerName      string          `json:"sellerName,omitempty"`
	CommertialOffer CommercialOffer `json:"commertialOffer"`
}

// CommercialOffer holds price and stock for a seller
type CommercialOffer struct {
	Price             float64 `json:"Price"`
	ListPrice         float64 `json:"ListPrice,omitempty"`
	AvailableQuantity int     `json:"AvailableQuantity"`
}

// FirstItem returns the first SKU of the product, if any
func (p CatalogProduct) FirstItem() (CatalogItem, bool) {
	if len(p.Items) == 0 {
		return CatalogItem{}, false
	}
	return p.Items[0], true
}

// FirstImageURL returns the first non-empty image URL of the first SKU
func (p CatalogProduct) FirstImageURL() (string, bool) {
	item, ok := p.FirstItem()
	if !ok || len(item.Images) == 0 || item.Images[0].ImageURL == "" {
		return "", false
	}
	return item.Images[0].ImageURL, true
}

// InStock reports whether any seller of the first SKU has stock
func (p CatalogProduct) InStock() bool {
	_, ok := p.FirstAvailableSeller()
	return ok
}

// FirstSeller returns the first seller of the first SKU
func (p CatalogProduct) FirstSeller() (CatalogSeller, bool) {
	item, ok := p.FirstItem()
	if !ok || len(item.Sellers) == 0 {
		return CatalogSeller{}, false
	}
	return item.Sellers[0], true
}

// FirstAvailableSeller returns the first seller of the first SKU with a
// strictly positive available quantity
func (p CatalogProduct) FirstAvailableSeller() (CatalogSeller, bool) {
	item, ok := p.FirstItem()
	if !ok {
		return CatalogSeller{}, false
	}
	for _, seller := range item.Sellers {
		if seller.CommertialOffer.AvailableQuantity > 0 {
			return seller, true
		}
	}
	return CatalogSeller{}, false
}

// CatalogQuery is a single term search against one store account
type CatalogQuery struct {
	Account string
	Term    string
	Limit   int
}

// CatalogResult is the outcome of one term search. Err is informational:
// a failed search carries no records and is never surfaced to the caller.
type CatalogResult struct {
	Records []CatalogProduct
	Err     error
}

// Failed reports whether the search did not complete successfully
func (r CatalogResult) Failed() bool {
	return r.Err != nil
}

package product

// VariantDetail is the catalog read model the checkout flow needs for one
// purchasable SKU: its stock, the owning product's current base price and
// name, and the seller who owns the product.
type VariantDetail struct {
	VariantID   int64  `json:"variant_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	// We keep price as a string to avoid rounding errors (NUMERIC in Postgres)
	BasePrice string `json:"base_price"`
	Stock     int    `json:"stock"`
	SellerID  int64  `json:"seller_id"`
}

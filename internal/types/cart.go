package types

import "strings"

// CartLineKey identifies a cart line. A line is keyed by product id alone for
// unsized products, or "productID-size" for sized products. Product ids never
// contain "-", so the first dash separates the two parts.
type CartLineKey struct {
	ProductID string
	Size      string
}

// ParseCartLineKey splits a wire-format line key into its parts
func ParseCartLineKey(key string) CartLineKey {
	productID, size, found := strings.Cut(key, "-")
	if !found {
		return CartLineKey{ProductID: key}
	}
	return CartLineKey{ProductID: productID, Size: size}
}

// String renders the wire format of the key
func (k CartLineKey) String() string {
	if k.Size == "" {
		return k.ProductID
	}
	return k.ProductID + "-" + k.Size
}

package domain

// Vendor is a read-only reference entry. The registry is a fixed in-memory
// list keyed by id; it is not persisted and vendor validity of a product is
// only checked at assignment time.
type Vendor struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

// Vendors is the static vendor registry.
var Vendors = []Vendor{
	{ID: 1, Name: "Coca-Cola Beverages"},
	{ID: 2, Name: "PepsiCo Distribution"},
	{ID: 3, Name: "Nestlé Wholesale"},
	{ID: 4, Name: "Unilever Foods"},
	{ID: 5, Name: "Mondelez Snacks"},
	{ID: 6, Name: "Local Fresh Produce"},
	{ID: 7, Name: "Metro Cash & Carry"},
	{ID: 8, Name: "General Grocery Supply"},
}

// VendorByID looks up a vendor in the registry.
func VendorByID(id int64) (Vendor, bool) {
	for _, v := range Vendors {
		if v.ID == id {
			return v, true
		}
	}
	return Vendor{}, false
}

// UnknownVendorIDs returns the subset of ids absent from the registry,
// preserving input order.
func UnknownVendorIDs(ids []int64) []int64 {
	var missing []int64
	for _, id := range ids {
		if _, ok := VendorByID(id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

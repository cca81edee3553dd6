package address

// Address is a buyer-owned saved shipping address. Orders never reference
// it directly; placement copies its fields into an immutable shipping
// snapshot.
type Address struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

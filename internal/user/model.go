package user

import "time"

// User covers both buyers and sellers. Balance is the wallet for buyers
// and the accumulated payout balance for sellers; NUMERIC -> string.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	ShopName  string    `json:"shop_name,omitempty"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

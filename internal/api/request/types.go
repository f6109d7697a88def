package request

import "encoding/json"

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,notblank,max=64"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Name      string `json:"name" validate:"required,notblank,max=100"`
	Role      string `json:"role" validate:"required,role"`
	ClassName string `json:"class_name" validate:"required,notblank,max=64"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PurchaseRequest is the request body for buying an item.
// Price is the price the client was shown.
type PurchaseRequest struct {
	ItemID string `json:"item_id" validate:"required,notblank"`
	Price  *int   `json:"price" validate:"required"`
}

// UpdatePriceRequest is the request body for changing an item's price.
// Price accepts a JSON number or the raw text a teacher typed.
type UpdatePriceRequest struct {
	Price json.RawMessage `json:"price" validate:"required"`
}

// GameMessageRequest is the request body for a message from the embedded game
type GameMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

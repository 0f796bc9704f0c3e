package models

type PaymentMethod struct {
	ID                    uint   `json:"id"`
	Name                  string `json:"name"`
	RequiresOnlinePayment bool   `json:"requires_online_payment"`
	Instructions          string `json:"instructions,omitempty"`
}

// PaymentData is the server-issued descriptor handed to the external payment
// widget when a purchase requires an online payment step.
type PaymentData struct {
	Provider    string  `json:"provider"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"`
	CallbackURL string  `json:"callback_url"`
}

// Customer carries the contact details forwarded to the payment widget.
type Customer struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

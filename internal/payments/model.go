package payments

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction records an upgrade purchase. Amounts are in cents of Currency.
type Transaction struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	AmountCents    int64      `json:"amountCents"`
	Currency       string     `json:"currency"`
	PaymentMethod  string     `json:"paymentMethod"`
	Status         Status     `json:"status"`
	ProductType    string     `json:"productType"`
	Description    string     `json:"description"`
	TransactionRef string     `json:"transactionRef,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// Package is one numbered upgrade offer.
type Package struct {
	Choice      string
	Name        string
	AmountCents int64
	ProductType string
}

// Packages are listed to the user in this order; Choice is what they type.
var Packages = []Package{
	{Choice: "1", Name: "Premium Templates", AmountCents: 300, ProductType: "premium_templates"},
	{Choice: "2", Name: "Premium + Editable", AmountCents: 400, ProductType: "premium_editable"},
	{Choice: "3", Name: "Complete Package", AmountCents: 500, ProductType: "complete_package"},
}

// PackageByChoice looks up a package by the number the user typed.
func PackageByChoice(choice string) (Package, bool) {
	for _, p := range Packages {
		if p.Choice == choice {
			return p, true
		}
	}
	return Package{}, false
}

// FormatAmount renders cents as "$4" or "$4.50".
func FormatAmount(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("$%d", cents/100)
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

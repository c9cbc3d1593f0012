package types

import "time"

// Payment is a cash-payment ledger entry. Rows are immutable once inserted;
// corrections are new rows.
type Payment struct {
	ID                string    `db:"id" json:"id"`
	Names             string    `db:"names" json:"names"`
	Surnames          string    `db:"surnames" json:"surnames"`
	AmountCents       int64     `db:"amount_cents" json:"amountCents"`
	DocumentPhotoURL  string    `db:"document_photo_url" json:"documentPhotoUrl"`
	DocumentPhotoPath string    `db:"document_photo_path" json:"documentPhotoPath"`
	RegisteringUser   string    `db:"registering_user" json:"registeringUser"`
	PaidAt            time.Time `db:"paid_at" json:"paidAt"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

type PaymentFilter struct {
	RegisteringUser string
	From            *time.Time
	To              *time.Time
}

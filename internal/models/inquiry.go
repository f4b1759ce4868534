package models

import "time"

// Inquiry is a contact-form submission handled from the admin console. UserID
// is set when a signed-in user submitted it.
type Inquiry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    *int64    `db:"user_id" json:"user_id,omitempty"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Resolved  bool      `db:"resolved" json:"resolved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CompanyInfo is one editable entry of the static company content.
type CompanyInfo struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *int64    `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

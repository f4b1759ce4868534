package dto

// CreateInquiryRequest is the public contact form.
type CreateInquiryRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Subject string  `json:"subject" validate:"required,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// InquiryFilter narrows the admin inquiry list.
type InquiryFilter struct {
	Resolved *bool
}

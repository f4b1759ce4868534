package dto

import "time"

// CompanyInfoItem is one company info entry as exposed by the API.
type CompanyInfoItem struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// UpdateCompanyInfoRequest sets a single value; the key comes from the path.
type UpdateCompanyInfoRequest struct {
	Value string `json:"value" validate:"max=20000"`
}

// CompanyInfoEntry is one item of a bulk update.
type CompanyInfoEntry struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"max=20000"`
}

// BulkUpdateCompanyInfoRequest updates several entries at once.
type BulkUpdateCompanyInfoRequest struct {
	Items []CompanyInfoEntry `json:"items" validate:"required,min=1,dive"`
}

package contract

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

// CreateDTO carries the fields a user sets when opening a contract.
// StartDate travels as a plain calendar day; everything monetary as a
// decimal string or number.
type CreateDTO struct {
	PropertyID                uint             `json:"propertyId"`
	TenantName                string           `json:"tenantName"`
	StartDate                 string           `json:"startDate"`
	BaseRentAmount            decimal.Decimal  `json:"baseRentAmount"`
	Currency                  string           `json:"currency"`
	AdjustmentType            AdjustmentType   `json:"adjustmentType"`
	AdjustmentIndexType       indicator.Type   `json:"adjustmentIndexType"`
	FixedPercent              *decimal.Decimal `json:"fixedPercent"`
	AdjustmentFrequencyMonths int              `json:"adjustmentFrequencyMonths"`
	DurationMonths            int              `json:"durationMonths"`
}

func (in *CreateDTO) toContract(userID uint) (*Contract, error) {
	day, err := civil.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	c := &Contract{
		PropertyID:                in.PropertyID,
		UserID:                    userID,
		TenantName:                in.TenantName,
		StartDate:                 indicator.TimeOf(day),
		BaseRentAmount:            in.BaseRentAmount,
		Currency:                  in.Currency,
		AdjustmentType:            in.AdjustmentType,
		AdjustmentIndexType:       in.AdjustmentIndexType,
		AdjustmentFrequencyMonths: in.AdjustmentFrequencyMonths,
		DurationMonths:            in.DurationMonths,
	}
	if c.Currency == "" {
		c.Currency = "ARS"
	}
	if c.AdjustmentType == "" {
		c.AdjustmentType = AdjustmentNone
	}
	if in.FixedPercent != nil {
		c.FixedPercent = *in.FixedPercent
	}
	return c, nil
}

// UpdateDTO carries the editable fields. StartDate is deliberately
// absent: it is immutable after creation.
type UpdateDTO struct {
	TenantName                *string          `json:"tenantName"`
	BaseRentAmount            *decimal.Decimal `json:"baseRentAmount"`
	Currency                  *string          `json:"currency"`
	AdjustmentType            *AdjustmentType  `json:"adjustmentType"`
	AdjustmentIndexType       *indicator.Type  `json:"adjustmentIndexType"`
	FixedPercent              *decimal.Decimal `json:"fixedPercent"`
	AdjustmentFrequencyMonths *int             `json:"adjustmentFrequencyMonths"`
	DurationMonths            *int             `json:"durationMonths"`
}

func (in *UpdateDTO) apply(c *Contract) {
	if in.TenantName != nil {
		c.TenantName = *in.TenantName
	}
	if in.BaseRentAmount != nil {
		c.BaseRentAmount = *in.BaseRentAmount
	}
	if in.Currency != nil {
		c.Currency = *in.Currency
	}
	if in.AdjustmentType != nil {
		c.AdjustmentType = *in.AdjustmentType
	}
	if in.AdjustmentIndexType != nil {
		c.AdjustmentIndexType = *in.AdjustmentIndexType
	}
	if in.FixedPercent != nil {
		c.FixedPercent = *in.FixedPercent
	}
	if in.AdjustmentFrequencyMonths != nil {
		c.AdjustmentFrequencyMonths = *in.AdjustmentFrequencyMonths
	}
	if in.DurationMonths != nil {
		c.DurationMonths = *in.DurationMonths
	}
}

package report

import (
	"strconv"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

// Ratios carries the effective DTI/LTV of a record, nil when neither upstream nor derivation has one.
type Ratios struct {
	DTI        *float64 `json:"dti"`
	LTV        *float64 `json:"ltv"`
	DTIDerived bool     `json:"dtiDerived"`
	LTVDerived bool     `json:"ltvDerived"`
}

// Display holds the formatted strings a client can render without further work.
type Display struct {
	EvaluatedAt   string `json:"evaluatedAt"`
	Decision      string `json:"decision"`
	DTI           string `json:"dti"`
	LTV           string `json:"ltv"`
	CreditScore   string `json:"creditScore"`
	LoanAmount    string `json:"loanAmount"`
	PropertyValue string `json:"propertyValue"`
	Occupancy     string `json:"occupancy"`
}

// RecordView is a canonical record enriched for presentation.
type RecordView struct {
	underwriting.Record
	OccupancyLabel string  `json:"occupancy_label"`
	Ratios         Ratios  `json:"ratios"`
	Tone           Tone    `json:"tone"`
	Description    string  `json:"description"`
	Display        Display `json:"display"`
}

// NewView derives ratios and display strings for r.
func NewView(r underwriting.Record) RecordView {
	var ratios Ratios
	dti, dtiOK, dtiDerived := DTI(r)
	if dtiOK {
		ratios.DTI = &dti
		ratios.DTIDerived = dtiDerived
	}
	ltv, ltvOK, ltvDerived := LTV(r)
	if ltvOK {
		ratios.LTV = &ltv
		ratios.LTVDerived = ltvDerived
	}

	label := OccupancyLabel(r.OccupancyType)
	return RecordView{
		Record:         r,
		OccupancyLabel: label,
		Ratios:         ratios,
		Tone:           ToneOf(r.Decision),
		Description:    Describe(r.Decision),
		Display: Display{
			EvaluatedAt:   FormatTimestamp(r.EvaluatedAt),
			Decision:      string(r.Decision),
			DTI:           FormatPercent(dti, dtiOK),
			LTV:           FormatPercent(ltv, ltvOK),
			CreditScore:   strconv.Itoa(r.CreditScore),
			LoanAmount:    FormatCurrency(r.LoanAmount),
			PropertyValue: FormatCurrency(r.PropertyValue),
			Occupancy:     label,
		},
	}
}

// NewViews maps a history onto views, keeping order. The result is never nil.
func NewViews(history underwriting.History) []RecordView {
	views := make([]RecordView, 0, len(history))
	for _, r := range history {
		views = append(views, NewView(r))
	}
	return views
}

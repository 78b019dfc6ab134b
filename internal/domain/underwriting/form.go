package underwriting

import (
	apperrors "github.com/yanqian/underwriting-gateway/pkg/errors"
)

const (
	msgInvalidNumbers   = "Please fill in all numeric fields with valid values."
	msgMissingUserID    = "User ID is required."
	msgMissingOccupancy = "Please select an occupancy type."
)

// FormFromValue reads form text out of an arbitrary JSON body.
// Both key casings are accepted and numbers are stringified.
func FormFromValue(body Value) FormValues {
	return FormValues{
		UserID:        firstText(body, userIDKeys),
		MonthlyIncome: firstText(body, monthlyIncomeKeys),
		MonthlyDebts:  firstText(body, monthlyDebtsKeys),
		LoanAmount:    firstText(body, loanAmountKeys),
		PropertyValue: firstText(body, propertyValueKeys),
		CreditScore:   firstText(body, creditScoreKeys),
		OccupancyType: firstText(body, occupancyKeys),
	}
}

// ParseForm converts borrower form input into a canonical request.
// Numbers are checked before the user id, and the user id before occupancy.
func ParseForm(form FormValues) (Request, error) {
	income, okIncome := parseFinite(form.MonthlyIncome)
	debts, okDebts := parseFinite(form.MonthlyDebts)
	loan, okLoan := parseFinite(form.LoanAmount)
	property, okProperty := parseFinite(form.PropertyValue)
	score, okScore := coerceOptionalInteger(StringValue(form.CreditScore))
	if !okIncome || !okDebts || !okLoan || !okProperty || !okScore {
		return Request{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgInvalidNumbers, nil)
	}

	userID := NormalizeText(StringValue(form.UserID))
	if userID == "" {
		return Request{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgMissingUserID, nil)
	}

	occupancy := ParseOccupancy(form.OccupancyType)
	if occupancy == "" {
		return Request{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgMissingOccupancy, nil)
	}

	return Request{
		UserID:        userID,
		MonthlyIncome: income,
		MonthlyDebts:  debts,
		LoanAmount:    loan,
		PropertyValue: property,
		CreditScore:   score,
		OccupancyType: occupancy,
	}, nil
}

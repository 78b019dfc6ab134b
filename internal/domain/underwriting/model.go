package underwriting

import "strings"

// Decision is the outcome produced by the upstream underwriting engine.
type Decision string

const (
	DecisionApprove Decision = "Approve"
	DecisionRefer   Decision = "Refer"
	DecisionDecline Decision = "Decline"
)

// ParseDecision matches a decision keyword case-insensitively.
// Anything unrecognised is a referral so malformed input never reads as an approval.
func ParseDecision(s string) Decision {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve":
		return DecisionApprove
	case "decline":
		return DecisionDecline
	default:
		return DecisionRefer
	}
}

// Occupancy is how the borrower intends to use the property.
type Occupancy string

const (
	OccupancyPrimaryResidence   Occupancy = "primary_residence"
	OccupancySecondHome         Occupancy = "second_home"
	OccupancyInvestmentProperty Occupancy = "investment_property"
)

// Occupancies lists the accepted occupancy types in display order.
var Occupancies = []Occupancy{
	OccupancyPrimaryResidence,
	OccupancySecondHome,
	OccupancyInvestmentProperty,
}

var occupancyLabels = map[Occupancy]string{
	OccupancyPrimaryResidence:   "Primary Residence",
	OccupancySecondHome:         "Second Home",
	OccupancyInvestmentProperty: "Investment Property",
}

// ParseOccupancy accepts codes or labels in any case ("Second Home", "second-home").
// Unknown text yields the empty occupancy.
func ParseOccupancy(s string) Occupancy {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	candidate := Occupancy(key)
	if _, ok := occupancyLabels[candidate]; ok {
		return candidate
	}
	return ""
}

// Label returns the human readable occupancy name, or "" when unknown.
func (o Occupancy) Label() string {
	return occupancyLabels[o]
}

// Request is the canonical underwriting request.
type Request struct {
	UserID        string    `json:"user_id"`
	MonthlyIncome float64   `json:"monthly_income"`
	MonthlyDebts  float64   `json:"monthly_debts"`
	LoanAmount    float64   `json:"loan_amount"`
	PropertyValue float64   `json:"property_value"`
	CreditScore   int       `json:"credit_score"`
	OccupancyType Occupancy `json:"occupancy_type"`
}

// Record is a canonical evaluation: the request it was made for plus the decision.
// Nil DTI/LTV/Reasons and an empty EvaluatedAt mean the upstream did not supply them.
type Record struct {
	Request
	Decision    Decision `json:"decision"`
	DTI         *float64 `json:"dti,omitempty"`
	LTV         *float64 `json:"ltv,omitempty"`
	EvaluatedAt string   `json:"evaluated_at,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
}

// History is the evaluation history of a borrower, in upstream order.
type History []Record

// FormValues is borrower input as typed into a form, before numeric parsing.
type FormValues struct {
	UserID        string `json:"user_id"`
	MonthlyIncome string `json:"monthly_income"`
	MonthlyDebts  string `json:"monthly_debts"`
	LoanAmount    string `json:"loan_amount"`
	PropertyValue string `json:"property_value"`
	CreditScore   string `json:"credit_score"`
	OccupancyType string `json:"occupancy_type"`
}

// Evaluation is the outcome of a form submission followed by a history refresh.
type Evaluation struct {
	Result       Record
	History      History
	HistoryError string
}

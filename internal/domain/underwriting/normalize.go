package underwriting

// Candidate key spellings per logical field, tried in order.
var (
	userIDKeys        = []string{"UserID", "user_id", "userId"}
	monthlyIncomeKeys = []string{"MonthlyIncome", "monthly_income"}
	monthlyDebtsKeys  = []string{"MonthlyDebts", "monthly_debts"}
	loanAmountKeys    = []string{"LoanAmount", "loan_amount"}
	propertyValueKeys = []string{"PropertyValue", "property_value"}
	creditScoreKeys   = []string{"CreditScore", "credit_score"}
	occupancyKeys     = []string{"OccupancyType", "occupancy_type"}

	decisionKeys = []string{"Decision", "decision"}
	dtiKeys      = []string{"DTI", "dti"}
	ltvKeys      = []string{"LTV", "ltv"}
	reasonsKeys  = []string{"Reasons", "reasons"}
)

const (
	requestKey   = "Request"
	responseKey  = "Response"
	containerID  = "UserID"
	evaluationsK = "evaluations"
	itemsK       = "items"
)

// NormalizeRequestLike reconciles a request-shaped object against an optional baseline.
// override, when non-null, takes precedence for the borrower identifier.
// ok is false only when no identifier resolves and no baseline was given.
func NormalizeRequestLike(raw Value, baseline *Request, override Value) (Request, bool) {
	userID := NormalizeText(override)
	if userID == "" {
		userID = firstText(raw, userIDKeys)
	}
	if userID == "" && baseline != nil {
		userID = baseline.UserID
	}
	if userID == "" {
		if baseline != nil {
			return *baseline, true
		}
		return Request{}, false
	}

	var base Request
	if baseline != nil {
		base = *baseline
	}

	return Request{
		UserID:        userID,
		MonthlyIncome: firstNumber(raw, monthlyIncomeKeys, base.MonthlyIncome),
		MonthlyDebts:  firstNumber(raw, monthlyDebtsKeys, base.MonthlyDebts),
		LoanAmount:    firstNumber(raw, loanAmountKeys, base.LoanAmount),
		PropertyValue: firstNumber(raw, propertyValueKeys, base.PropertyValue),
		CreditScore:   firstInteger(raw, creditScoreKeys, base.CreditScore),
		OccupancyType: firstOccupancy(raw, occupancyKeys, base.OccupancyType),
	}, true
}

// NormalizeRecord reconciles a single evaluation, bare or nested under Request/Response.
// A non-object raw synthesizes a Refer record from fallback when one is given.
func NormalizeRecord(raw Value, fallback *Request) (Record, bool) {
	if raw.Kind() != KindObject {
		if fallback == nil {
			return Record{}, false
		}
		return Record{Request: *fallback, Decision: DecisionRefer}, true
	}

	requestSource := nestedOr(raw, requestKey)
	responseSource := nestedOr(raw, responseKey)

	request, ok := NormalizeRequestLike(requestSource, fallback, raw.Field(containerID))
	if !ok {
		return Record{}, false
	}

	record := Record{
		Request:  request,
		Decision: ParseDecision(firstText(responseSource, decisionKeys)),
		Reasons:  firstReasons(responseSource, reasonsKeys),
		EvaluatedAt: firstTimestamp(
			responseSource.Field("EvaluatedAt"),
			responseSource.Field("evaluated_at"),
			raw.Field("EvaluatedAt"),
			raw.Field("CreatedAt"),
			responseSource.Field("CreatedAt"),
			responseSource.Field("created_at"),
		),
	}
	if dti, ok := firstOptionalNumber(responseSource, dtiKeys); ok {
		record.DTI = &dti
	}
	if ltv, ok := firstOptionalNumber(responseSource, ltvKeys); ok {
		record.LTV = &ltv
	}
	return record, true
}

// nestedOr returns raw[key] when it is present. A missing or null section falls back to
// the container itself, while a malformed one reads as an empty object so its siblings
// never stand in for it.
func nestedOr(raw Value, key string) Value {
	switch nested := raw.Field(key); nested.Kind() {
	case KindNull:
		return raw
	case KindObject:
		return nested
	default:
		return ObjectValue(nil)
	}
}

// HistoryEntries unwraps a history envelope into its raw entries.
func HistoryEntries(payload Value) []Value {
	switch payload.Kind() {
	case KindArray:
		return payload.Items()
	case KindObject:
		if evaluations := payload.Field(evaluationsK); evaluations.Kind() == KindArray {
			return evaluations.Items()
		}
		if items := payload.Field(itemsK); items.Kind() == KindArray {
			return items.Items()
		}
		return []Value{payload}
	default:
		return nil
	}
}

// NormalizeHistory normalizes every entry of a history payload, dropping the unidentifiable ones.
// The result is never nil.
func NormalizeHistory(payload Value) History {
	entries := HistoryEntries(payload)
	history := make(History, 0, len(entries))
	for _, entry := range entries {
		if record, ok := NormalizeRecord(entry, nil); ok {
			history = append(history, record)
		}
	}
	return history
}

func firstText(raw Value, keys []string) string {
	for _, key := range keys {
		if text := NormalizeText(raw.Field(key)); text != "" {
			return text
		}
	}
	return ""
}

func firstNumber(raw Value, keys []string, fallback float64) float64 {
	if n, ok := firstOptionalNumber(raw, keys); ok {
		return n
	}
	return fallback
}

func firstOptionalNumber(raw Value, keys []string) (float64, bool) {
	for _, key := range keys {
		if n, ok := CoerceOptionalNumber(raw.Field(key)); ok {
			return n, true
		}
	}
	return 0, false
}

func firstInteger(raw Value, keys []string, fallback int) int {
	for _, key := range keys {
		if n, ok := coerceOptionalInteger(raw.Field(key)); ok {
			return n
		}
	}
	return fallback
}

func firstOccupancy(raw Value, keys []string, fallback Occupancy) Occupancy {
	for _, key := range keys {
		if occupancy := ParseOccupancy(NormalizeText(raw.Field(key))); occupancy != "" {
			return occupancy
		}
	}
	return fallback
}

func firstReasons(raw Value, keys []string) []string {
	for _, key := range keys {
		if reasons := NormalizeReasons(raw.Field(key)); reasons != nil {
			return reasons
		}
	}
	return nil
}

// firstTimestamp only accepts text; numeric epochs are not date strings.
func firstTimestamp(candidates ...Value) string {
	for _, candidate := range candidates {
		if candidate.Kind() != KindString {
			continue
		}
		if text := NormalizeText(candidate); text != "" {
			return text
		}
	}
	return ""
}

package underwriting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) Value {
	t.Helper()
	v := DecodeValue([]byte(raw))
	require.NotEqual(t, KindNull, v.Kind(), "fixture must be valid JSON: %s", raw)
	return v
}

func ptr(f float64) *float64 { return &f }

func TestNormalizeRequestLikeIdentifierPrecedence(t *testing.T) {
	req, ok := NormalizeRequestLike(decode(t, `{"UserID":"u1","user_id":"u2","userId":"u3"}`), nil, NullValue())
	require.True(t, ok)
	require.Equal(t, "u1", req.UserID)

	req, ok = NormalizeRequestLike(decode(t, `{"UserID":"  ","userId":"u3"}`), nil, NullValue())
	require.True(t, ok)
	require.Equal(t, "u3", req.UserID)

	req, ok = NormalizeRequestLike(decode(t, `{"UserID":"u1"}`), nil, StringValue("top"))
	require.True(t, ok)
	require.Equal(t, "top", req.UserID)

	req, ok = NormalizeRequestLike(decode(t, `{"user_id":1001}`), nil, NullValue())
	require.True(t, ok)
	require.Equal(t, "1001", req.UserID)
}

func TestNormalizeRequestLikeFieldFallbacks(t *testing.T) {
	baseline := &Request{
		UserID:        "base",
		MonthlyIncome: 9000,
		MonthlyDebts:  1000,
		LoanAmount:    300000,
		PropertyValue: 400000,
		CreditScore:   700,
		OccupancyType: OccupancySecondHome,
	}
	raw := decode(t, `{
		"MonthlyIncome": "not a number",
		"monthly_income": "8000",
		"monthly_debts": 1500.5,
		"CreditScore": "742.9",
		"occupancy_type": "castle"
	}`)

	req, ok := NormalizeRequestLike(raw, baseline, NullValue())
	require.True(t, ok)
	require.Equal(t, Request{
		UserID:        "base",
		MonthlyIncome: 8000,
		MonthlyDebts:  1500.5,
		LoanAmount:    300000,
		PropertyValue: 400000,
		CreditScore:   742,
		OccupancyType: OccupancySecondHome,
	}, req)
}

func TestNormalizeRequestLikeDefaultsToZero(t *testing.T) {
	req, ok := NormalizeRequestLike(decode(t, `{"userId":"u9"}`), nil, NullValue())
	require.True(t, ok)
	require.Equal(t, Request{UserID: "u9"}, req)
}

func TestNormalizeRequestLikeWithoutIdentifier(t *testing.T) {
	_, ok := NormalizeRequestLike(decode(t, `{"MonthlyIncome":100}`), nil, NullValue())
	require.False(t, ok)

	baseline := Request{UserID: "", MonthlyIncome: 5}
	req, ok := NormalizeRequestLike(decode(t, `{"MonthlyIncome":100}`), &baseline, NullValue())
	require.True(t, ok)
	require.Equal(t, baseline, req)
}

func TestNormalizeRecordNested(t *testing.T) {
	raw := decode(t, `{
		"UserID": "u1",
		"CreatedAt": "2024-05-01T10:00:00Z",
		"Request": {"monthly_income": 10000, "MonthlyDebts": 3600, "LoanAmount": 240000, "PropertyValue": 300000, "CreditScore": 710, "OccupancyType": "primary_residence"},
		"Response": {"Decision": "approve", "dti": "0.36", "LTV": 0.8, "Reasons": ["Strong credit", ""]}
	}`)

	record, ok := NormalizeRecord(raw, nil)
	require.True(t, ok)
	require.Equal(t, Record{
		Request: Request{
			UserID:        "u1",
			MonthlyIncome: 10000,
			MonthlyDebts:  3600,
			LoanAmount:    240000,
			PropertyValue: 300000,
			CreditScore:   710,
			OccupancyType: OccupancyPrimaryResidence,
		},
		Decision:    DecisionApprove,
		DTI:         ptr(0.36),
		LTV:         ptr(0.8),
		EvaluatedAt: "2024-05-01T10:00:00Z",
		Reasons:     []string{"Strong credit"},
	}, record)
}

func TestNormalizeRecordLeavesRatiosAbsent(t *testing.T) {
	record, ok := NormalizeRecord(decode(t, `{"user_id":"u1","monthly_income":5000,"monthly_debts":1000}`), nil)
	require.True(t, ok)
	require.Nil(t, record.DTI)
	require.Nil(t, record.LTV)
	require.Nil(t, record.Reasons)
	require.Empty(t, record.EvaluatedAt)
	require.Equal(t, DecisionRefer, record.Decision)
}

func TestNormalizeRecordMalformedSections(t *testing.T) {
	record, ok := NormalizeRecord(decode(t, `{"UserID":"u","Decision":"approve","DTI":0.3,"Response":"garbage"}`), nil)
	require.True(t, ok)
	require.Equal(t, DecisionRefer, record.Decision)
	require.Nil(t, record.DTI)

	record, ok = NormalizeRecord(decode(t, `{"UserID":"u","Decision":"approve","Response":null}`), nil)
	require.True(t, ok)
	require.Equal(t, DecisionApprove, record.Decision)

	baseline := Request{UserID: "base", MonthlyIncome: 9000, OccupancyType: OccupancySecondHome}
	record, ok = NormalizeRecord(decode(t, `{"UserID":"u","MonthlyIncome":1,"Request":[1,2]}`), &baseline)
	require.True(t, ok)
	require.Equal(t, "u", record.UserID)
	require.Equal(t, 9000.0, record.MonthlyIncome)
	require.Equal(t, OccupancySecondHome, record.OccupancyType)
}

func TestNormalizeRecordTimestampPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"response evaluated", `{"UserID":"u","EvaluatedAt":"c","Response":{"EvaluatedAt":"a","evaluated_at":"b"}}`, "a"},
		{"response snake evaluated", `{"UserID":"u","EvaluatedAt":"c","Response":{"EvaluatedAt":"  ","evaluated_at":"b"}}`, "b"},
		{"container evaluated", `{"UserID":"u","EvaluatedAt":"c","CreatedAt":"d","Response":{"CreatedAt":"e"}}`, "c"},
		{"container created", `{"UserID":"u","CreatedAt":"d","Response":{"CreatedAt":"e"}}`, "d"},
		{"response created", `{"UserID":"u","Response":{"CreatedAt":"e","created_at":"f"}}`, "e"},
		{"response snake created", `{"UserID":"u","Response":{"created_at":"f"}}`, "f"},
		{"numbers ignored", `{"UserID":"u","Response":{"EvaluatedAt":1700000000}}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, ok := NormalizeRecord(decode(t, tc.raw), nil)
			require.True(t, ok)
			require.Equal(t, tc.want, record.EvaluatedAt)
		})
	}
}

func TestNormalizeRecordUnidentifiable(t *testing.T) {
	_, ok := NormalizeRecord(decode(t, `{"MonthlyIncome":100}`), nil)
	require.False(t, ok)
}

func TestNormalizeRecordNonObjectInput(t *testing.T) {
	for _, raw := range []Value{NullValue(), NumberValue(42), StringValue("text"), ArrayValue()} {
		_, ok := NormalizeRecord(raw, nil)
		require.False(t, ok)
	}

	fallback := Request{UserID: "u1", MonthlyIncome: 10}
	record, ok := NormalizeRecord(StringValue("accepted"), &fallback)
	require.True(t, ok)
	require.Equal(t, Record{Request: fallback, Decision: DecisionRefer}, record)
}

func TestNormalizeRecordFallbackFillsGaps(t *testing.T) {
	fallback := Request{
		UserID:        "u1",
		MonthlyIncome: 8000,
		MonthlyDebts:  2000,
		LoanAmount:    200000,
		PropertyValue: 250000,
		CreditScore:   690,
		OccupancyType: OccupancyInvestmentProperty,
	}
	record, ok := NormalizeRecord(decode(t, `{"decision":"Decline","reasons":"DTI too high"}`), &fallback)
	require.True(t, ok)
	require.Equal(t, fallback, record.Request)
	require.Equal(t, DecisionDecline, record.Decision)
	require.Equal(t, []string{"DTI too high"}, record.Reasons)
}

func TestNormalizeRecordIsIdempotent(t *testing.T) {
	canonical := Record{
		Request: Request{
			UserID:        "u-42",
			MonthlyIncome: 12500.75,
			MonthlyDebts:  3100.25,
			LoanAmount:    410000,
			PropertyValue: 520000,
			CreditScore:   768,
			OccupancyType: OccupancySecondHome,
		},
		Decision:    DecisionDecline,
		DTI:         ptr(0.248),
		LTV:         ptr(0.7884615384615384),
		EvaluatedAt: "2024-06-01T08:30:00Z",
		Reasons:     []string{"LTV above threshold", "Second home"},
	}

	data, err := json.Marshal(canonical)
	require.NoError(t, err)

	again, ok := NormalizeRecord(DecodeValue(data), nil)
	require.True(t, ok)
	require.Equal(t, canonical, again)
}

func TestHistoryEntries(t *testing.T) {
	require.Len(t, HistoryEntries(decode(t, `[1,2,3]`)), 3)
	require.Len(t, HistoryEntries(decode(t, `{"evaluations":[1],"items":[1,2]}`)), 1)
	require.Len(t, HistoryEntries(decode(t, `{"evaluations":"x","items":[1,2]}`)), 2)
	require.Len(t, HistoryEntries(decode(t, `{"UserID":"u"}`)), 1)
	require.Nil(t, HistoryEntries(NumberValue(1)))
}

func TestNormalizeHistoryEnvelope(t *testing.T) {
	history := NormalizeHistory(decode(t, `{"evaluations":[{"UserID":"u1","Response":{"Decision":"approve"}}]}`))
	require.Len(t, history, 1)
	require.Equal(t, "u1", history[0].UserID)
	require.Equal(t, DecisionApprove, history[0].Decision)
}

func TestNormalizeHistoryPreservesOrderAndDrops(t *testing.T) {
	history := NormalizeHistory(decode(t, `[
		{"user_id":"b","decision":"Refer"},
		{"MonthlyIncome":100},
		"junk",
		{"user_id":"a","decision":"Approve"}
	]`))
	require.Len(t, history, 2)
	require.Equal(t, "b", history[0].UserID)
	require.Equal(t, "a", history[1].UserID)
}

func TestNormalizeHistoryItemsAndBareObject(t *testing.T) {
	require.Len(t, NormalizeHistory(decode(t, `{"items":[{"userId":"x"},{"userId":"y"}]}`)), 2)

	single := NormalizeHistory(decode(t, `{"UserID":"solo","Decision":"decline"}`))
	require.Len(t, single, 1)
	require.Equal(t, DecisionDecline, single[0].Decision)

	require.Empty(t, NormalizeHistory(decode(t, `{"note":"nothing here"}`)))
}

func TestNormalizeHistoryMalformed(t *testing.T) {
	for _, raw := range []Value{NullValue(), NumberValue(42), StringValue("text"), ArrayValue()} {
		history := NormalizeHistory(raw)
		require.NotNil(t, history)
		require.Empty(t, history)
	}
}

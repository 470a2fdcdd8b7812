package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/hvut-filing/internal/model"
	"github.com/nurpe/hvut-filing/internal/tax"
)

func testRequest(t *testing.T) *Request {
	t.Helper()

	group := model.MonthGroup{
		Month: "202508",
		Business: model.Business{
			Name:        "Acme Haulage",
			EIN:         "12-3456789",
			AddressLine: "10 Main St",
			City:        "Springfield",
			State:       "IL",
			Zip:         "62701",
		},
		Vehicles: []model.Vehicle{
			{VIN: "1XKAD49X1KJ000001", Category: "A", FirstUsedMonth: "202508"},
			{VIN: "1XKAD49X1KJ000002", Category: "A", FirstUsedMonth: "202508", Logging: true},
			{VIN: "1XKAD49X1KJ000003", Category: "W", FirstUsedMonth: "202508", Suspended: true},
		},
	}

	breakdown, err := tax.Assemble(group, nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	return &Request{Group: group, Breakdown: breakdown}
}

func TestBuildNormalizedEINEverywhere(t *testing.T) {
	req := testRequest(t)

	out, err := NewReturnBuilder().Build(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var parsed Return
	require.NoError(t, xml.Unmarshal(out, &parsed))

	assert.Equal(t, "123456789", parsed.Filer.EIN)
	assert.Equal(t, "123456789", parsed.Header.EIN)
	assert.Equal(t, "202508", parsed.Header.FirstUsedMonth)

	require.Len(t, parsed.Items, 3)
	assert.Equal(t, "91.67", parsed.Items[0].TaxAmount)
	assert.Equal(t, "68.75", parsed.Items[1].TaxAmount)
	assert.True(t, parsed.Items[1].LoggingIndicator)
	assert.Equal(t, "0.00", parsed.Items[2].TaxAmount)
	assert.True(t, parsed.Items[2].SuspendedIndicator)
}

func TestBuildIndicatorsOnlyWhenSet(t *testing.T) {
	req := testRequest(t)

	out, err := NewReturnBuilder().Build(req)
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, "AddressChangeIndicator")
	assert.NotContains(t, text, "AmendedIndicator")
	assert.NotContains(t, text, "AdditionalTax")
	assert.NotContains(t, text, "Credits")

	req.Flags.Amended = true
	out, err = NewReturnBuilder().Build(req)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<AmendedIndicator>true</AmendedIndicator>")
}

func TestBuildOptionalBlocksGated(t *testing.T) {
	req := testRequest(t)
	req.Designee = &model.Designee{Name: "Pat Lee", Phone: "5551234567", PIN: "12345"}
	req.Preparer = &model.Preparer{Name: "Sam Roe", PTIN: "P00000001"}

	out, err := NewReturnBuilder().Build(req)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ThirdPartyDesignee")
	assert.NotContains(t, string(out), "PaidPreparer")

	req.Designee.Include = true
	req.Preparer.Include = true
	req.Payment = &model.Payment{
		Include:       true,
		RoutingNumber: "021000021",
		AccountNumber: "000123456789",
		AccountType:   "Checking",
	}

	out, err = NewReturnBuilder().Build(req)
	require.NoError(t, err)

	var parsed Return
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.NotNil(t, parsed.Designee)
	assert.Equal(t, "Pat Lee", parsed.Designee.Name)
	require.NotNil(t, parsed.Preparer)
	assert.Equal(t, "P00000001", parsed.Preparer.PTIN)
	require.NotNil(t, parsed.Payment)
	assert.Equal(t, "021000021", parsed.Payment.RoutingNumber)
}

func TestBuildEmptyGroupRejected(t *testing.T) {
	req := &Request{Group: model.MonthGroup{Month: "202508"}}
	_, err := NewReturnBuilder().Build(req)
	assert.Error(t, err)
}

func TestNormalizeEIN(t *testing.T) {
	assert.Equal(t, "123456789", NormalizeEIN("12-3456789"))
	assert.Equal(t, "123456789", NormalizeEIN("123456789"))
	assert.Equal(t, "000001234", NormalizeEIN("1234"))
	assert.Equal(t, "000000000", NormalizeEIN(""))
}

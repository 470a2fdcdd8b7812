package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Return is the machine-readable 2290 document. Optional blocks marshal
// only when the corresponding data was supplied; boolean indicators only
// when true.
type Return struct {
	XMLName  xml.Name       `xml:"Form2290Return"`
	Filer    Filer          `xml:"Filer"`
	Header   ReturnHeader   `xml:"ReturnHeader"`
	Designee *DesigneeBlock `xml:"ThirdPartyDesignee,omitempty"`
	Preparer *PreparerBlock `xml:"PaidPreparer,omitempty"`
	Payment  *PaymentBlock  `xml:"DirectDebit,omitempty"`
	Items    []ReportItem   `xml:"ReportItems>ReportItem"`
}

type Filer struct {
	EIN          string `xml:"EIN"`
	BusinessName string `xml:"BusinessName"`
	AddressLine  string `xml:"AddressLine"`
	City         string `xml:"City"`
	State        string `xml:"State"`
	Zip          string `xml:"ZipCode"`
}

type ReturnHeader struct {
	EIN            string `xml:"EIN"`
	FirstUsedMonth string `xml:"FirstUsedMonth"`
	TotalTax       string `xml:"TotalTax"`
	AdditionalTax  string `xml:"AdditionalTax,omitempty"`
	Credits        string `xml:"Credits,omitempty"`
	BalanceDue     string `xml:"BalanceDue"`

	AddressChangeIndicator bool `xml:"AddressChangeIndicator,omitempty"`
	AmendedIndicator       bool `xml:"AmendedIndicator,omitempty"`
	VINCorrectionIndicator bool `xml:"VINCorrectionIndicator,omitempty"`
	FinalReturnIndicator   bool `xml:"FinalReturnIndicator,omitempty"`
}

type DesigneeBlock struct {
	Name  string `xml:"Name"`
	Phone string `xml:"Phone"`
	PIN   string `xml:"PIN"`
}

type PreparerBlock struct {
	Name                  string `xml:"Name"`
	Firm                  string `xml:"Firm,omitempty"`
	Phone                 string `xml:"Phone,omitempty"`
	PTIN                  string `xml:"PTIN"`
	SelfEmployedIndicator bool   `xml:"SelfEmployedIndicator,omitempty"`
}

type PaymentBlock struct {
	RoutingNumber string `xml:"RoutingNumber"`
	AccountNumber string `xml:"AccountNumber"`
	AccountType   string `xml:"AccountType"`
	Phone         string `xml:"Phone,omitempty"`
}

type ReportItem struct {
	VIN            string `xml:"VIN"`
	WeightCategory string `xml:"WeightCategory"`
	FirstUsedMonth string `xml:"FirstUsedMonth"`
	TaxAmount      string `xml:"TaxAmount"`

	LoggingIndicator      bool `xml:"LoggingIndicator,omitempty"`
	AgriculturalIndicator bool `xml:"AgriculturalIndicator,omitempty"`
	LowMileageIndicator   bool `xml:"LowMileageIndicator,omitempty"`
	SuspendedIndicator    bool `xml:"SuspendedIndicator,omitempty"`
}

// ReturnBuilder produces the XML return for one month group.
type ReturnBuilder struct{}

func NewReturnBuilder() *ReturnBuilder {
	return &ReturnBuilder{}
}

func (b *ReturnBuilder) Build(req *Request) ([]byte, error) {
	if len(req.Group.Vehicles) == 0 {
		return nil, fmt.Errorf("month group %s has no vehicles", req.Group.Month)
	}

	ein := NormalizeEIN(req.Group.Business.EIN)
	ret := Return{
		Filer: Filer{
			EIN:          ein,
			BusinessName: req.Group.Business.Name,
			AddressLine:  req.Group.Business.AddressLine,
			City:         req.Group.Business.City,
			State:        req.Group.Business.State,
			Zip:          req.Group.Business.Zip,
		},
		Header: ReturnHeader{
			EIN:            ein,
			FirstUsedMonth: req.Group.Month,
			TotalTax:       req.Breakdown.Line4Total.StringFixed(2),
			BalanceDue:     req.Breakdown.Line6Balance.StringFixed(2),

			AddressChangeIndicator: req.Flags.AddressChange,
			AmendedIndicator:       req.Flags.Amended,
			VINCorrectionIndicator: req.Flags.VINCorrection,
			FinalReturnIndicator:   req.Flags.FinalReturn,
		},
	}
	if !req.Breakdown.Line3Increase.IsZero() {
		ret.Header.AdditionalTax = req.Breakdown.Line3Increase.StringFixed(2)
	}
	if !req.Breakdown.Line5Credits.IsZero() {
		ret.Header.Credits = req.Breakdown.Line5Credits.StringFixed(2)
	}

	if req.includeDesignee() {
		ret.Designee = &DesigneeBlock{
			Name:  req.Designee.Name,
			Phone: req.Designee.Phone,
			PIN:   req.Designee.PIN,
		}
	}
	if req.includePreparer() {
		ret.Preparer = &PreparerBlock{
			Name:                  req.Preparer.Name,
			Firm:                  req.Preparer.Firm,
			Phone:                 req.Preparer.Phone,
			PTIN:                  req.Preparer.PTIN,
			SelfEmployedIndicator: req.Preparer.SelfEmployed,
		}
	}
	if req.includePayment() {
		ret.Payment = &PaymentBlock{
			RoutingNumber: req.Payment.RoutingNumber,
			AccountNumber: req.Payment.AccountNumber,
			AccountType:   req.Payment.AccountType,
			Phone:         req.Payment.Phone,
		}
	}

	for _, vehicle := range req.Group.Vehicles {
		ret.Items = append(ret.Items, ReportItem{
			VIN:            vehicle.VIN,
			WeightCategory: string(vehicle.Category),
			FirstUsedMonth: vehicle.FirstUsedMonth,
			TaxAmount:      vehicleAmount(&req.Breakdown, vehicle).StringFixed(2),

			LoggingIndicator:      vehicle.Logging,
			AgriculturalIndicator: vehicle.Agricultural,
			LowMileageIndicator:   vehicle.LowMileage,
			SuspendedIndicator:    vehicle.Suspended,
		})
	}

	body, err := xml.MarshalIndent(ret, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal return: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

package datev

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debit/credit indicators for booking rows. The indicator refers to the
// Konto field: S books the amount against it as debit, H as credit.
const (
	IndicatorDebit  = "S"
	IndicatorCredit = "H"
)

// Booking is one data row of a Buchungsstapel file. Only the fields every
// booking needs are top-level; the long tail of optional positional fields
// lives in Options.
type Booking struct {
	// Revenue is the unsigned amount (field 1).
	Revenue decimal.Decimal
	// DebitCreditIndicator is IndicatorDebit or IndicatorCredit (field 2).
	DebitCreditIndicator string
	// Account is the asset or personal account (field 7).
	Account int
	// ContraAccount is the contra account without BU key (field 8).
	ContraAccount int
	// DocumentDate is rendered as DDMM; the year comes from the batch
	// header (field 10).
	DocumentDate time.Time
	// PostingText is limited to 60 characters (field 14).
	PostingText string

	Options BookingOptions
}

// InfoField is one type/content pair of the Beleginfo and Zusatzinformation
// column groups. Both parts must be set together to be meaningful.
type InfoField struct {
	Type    string
	Content string
}

// BookingOptions covers the optional positional fields of a booking row.
// Zero values render as empty columns, which is what DATEV expects for
// unused fields; numeric fields are pointers because 0 is a valid value.
type BookingOptions struct {
	CurrencyCodeRevenue     string // field 3, defaults to the batch currency
	ExchangeRate            *decimal.Decimal
	BaseRevenue             *decimal.Decimal
	CurrencyCodeBaseRevenue string
	BUKey                   string
	DocumentField1          string
	DocumentField2          string
	Discount                *decimal.Decimal
	ItemBlock               int
	MiscAddressNumber       string
	BusinessPartnerBank     *int
	Issue                   *int
	InterestLock            *int
	DocumentLink            string
	DocumentInfo            [8]InfoField

	CostCenter1  string
	CostCenter2  string
	CostQuantity string

	EUMemberStateAndVATID  string
	EUTaxRate              string
	AlternateTaxation      string
	IssuePL                *int
	FunctionComplementPL   string
	BU49MainFunctionType   *int
	BU49MainFunctionNumber *int
	BU49FunctionComplement *int

	AdditionalInfo [20]InfoField

	Quantity                   *int
	Weight                     *decimal.Decimal
	PaymentMethod              *int
	ClaimType                  string
	AssessmentYear             string
	AssociatedDueDate          string
	DiscountType               *int
	OrderNumber                string
	BookingType                string
	VATKeyInstallments         *int
	EUMemberStateInstallments  string
	IssuePLInstallments        *int
	EUTaxRateInstallments      *decimal.Decimal
	RevenueAccountInstallments string
	SourceCode                 string

	CostCenterDate        string
	SEPAMandateReference  string
	DiscountLock          *int
	ShareholderName       string
	ParticipantNumber     *int
	IdentificationNumber  string
	SignatoryNumber       string
	PostBlockUntil        string
	DesignationSoBilIssue string
	IndicatorSoBilBooking *int
	Fixation              *int
	PerformanceDate       string
	DateAssignTaxPeriod   string
	DueDate               string
	GeneralReverse        string
	TaxRate               *decimal.Decimal
	Country               string
	BillingReference      string
	BVVPosition           *int

	EUMemberStateAndVATIDOrigin string
	EUTaxRateOrigin             string
}

// row lays the booking out as the 124 positional cells of a data row.
// Field 103 is reserved by DATEV and always empty.
func (b Booking) row() []any {
	o := b.Options

	cells := []any{
		b.Revenue,
		b.DebitCreditIndicator,
		o.CurrencyCodeRevenue,
		optDec(o.ExchangeRate),
		optDec(o.BaseRevenue),
		o.CurrencyCodeBaseRevenue,
		b.Account,
		b.ContraAccount,
		o.BUKey,
		formatDate(b.DocumentDate, true),
		o.DocumentField1,
		o.DocumentField2,
		optDec(o.Discount),
		b.PostingText,
		o.ItemBlock,
		o.MiscAddressNumber,
		optInt(o.BusinessPartnerBank),
		optInt(o.Issue),
		optInt(o.InterestLock),
		o.DocumentLink,
	}

	for _, info := range o.DocumentInfo {
		cells = append(cells, info.Type, info.Content)
	}

	cells = append(cells,
		o.CostCenter1,
		o.CostCenter2,
		o.CostQuantity,
		o.EUMemberStateAndVATID,
		o.EUTaxRate,
		o.AlternateTaxation,
		optInt(o.IssuePL),
		o.FunctionComplementPL,
		optInt(o.BU49MainFunctionType),
		optInt(o.BU49MainFunctionNumber),
		optInt(o.BU49FunctionComplement),
	)

	for _, info := range o.AdditionalInfo {
		cells = append(cells, info.Type, info.Content)
	}

	return append(cells,
		optInt(o.Quantity),
		optDec(o.Weight),
		optInt(o.PaymentMethod),
		o.ClaimType,
		o.AssessmentYear,
		o.AssociatedDueDate,
		optInt(o.DiscountType),
		o.OrderNumber,
		o.BookingType,
		optInt(o.VATKeyInstallments),
		o.EUMemberStateInstallments,
		optInt(o.IssuePLInstallments),
		optDec(o.EUTaxRateInstallments),
		o.RevenueAccountInstallments,
		o.SourceCode,
		"", // field 103, reserved
		o.CostCenterDate,
		o.SEPAMandateReference,
		optInt(o.DiscountLock),
		o.ShareholderName,
		optInt(o.ParticipantNumber),
		o.IdentificationNumber,
		o.SignatoryNumber,
		o.PostBlockUntil,
		o.DesignationSoBilIssue,
		optInt(o.IndicatorSoBilBooking),
		optInt(o.Fixation),
		o.PerformanceDate,
		o.DateAssignTaxPeriod,
		o.DueDate,
		o.GeneralReverse,
		optDec(o.TaxRate),
		o.Country,
		o.BillingReference,
		optInt(o.BVVPosition),
		o.EUMemberStateAndVATIDOrigin,
		o.EUTaxRateOrigin,
	)
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func optDec(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return *p
}

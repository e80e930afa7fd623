package model

// RiskLevel is the service's severity grading for one flag check
type RiskLevel string

const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Result is the completed analysis payload. It is read-only once fetched
// and re-fetchable idempotently by job identifier.
type Result struct {
	URL                 string               `json:"url"`
	Timestamp           string               `json:"timestamp"`
	Summary             BusinessSummary      `json:"summary"`
	NAICS               NAICSCodes           `json:"naics_codes"`
	Flags               Flags                `json:"flags"`
	Address             *Address             `json:"address,omitempty"`
	CompanyRegistration *CompanyRegistration `json:"company_registration,omitempty"`
}

// BusinessSummary describes what the analyzed company does and where
type BusinessSummary struct {
	Nature               string   `json:"nature"`
	ProductsServices     string   `json:"products_services"`
	CountriesOperating   []string `json:"countries_operating"`
	CountriesDealingWith []string `json:"countries_dealing_with"`
}

// NAICSCodes is the industry classification block
type NAICSCodes struct {
	Codes       []string `json:"codes"`
	PrimaryCode string   `json:"primary_code"`
	Explanation string   `json:"explanation"`
}

// Flags groups the three screening checks
type Flags struct {
	Sanctions FlagCheck `json:"sanctions"`
	Military  FlagCheck `json:"military"`
	DualUse   FlagCheck `json:"dual_use"`
	AnyFlags  bool      `json:"any_flags"`
}

// FlagCheck is the outcome of a single screening check
type FlagCheck struct {
	FlagsRaised     bool      `json:"flags_raised"`
	Matches         []string  `json:"matches"`
	Evidence        []string  `json:"evidence"`
	RiskLevel       RiskLevel `json:"risk_level"`
	RiskScore       int       `json:"risk_score"`
	RiskExplanation string    `json:"risk_explanation"`
}

// Address carries the extracted address and its validation verdict.
// Address is empty when the service found none.
type Address struct {
	Address    string            `json:"address"`
	Validation AddressValidation `json:"validation"`
	MakesSense *bool             `json:"makes_sense,omitempty"`
}

// AddressValidation mirrors the service's nullable validation fields.
// IsCommercial nil means the commercial classification is unknown, which is
// distinct from false.
type AddressValidation struct {
	Valid            *bool    `json:"valid,omitempty"`
	ImagePath        string   `json:"image_path,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	IsCommercial     *bool    `json:"is_commercial,omitempty"`
	PlausibilityNote string   `json:"plausibility_note,omitempty"`
	AddressTypes     []string `json:"address_types,omitempty"`
}

// CompanyRegistration holds registry identifiers scraped from the site
type CompanyRegistration struct {
	CompanyNumber         string `json:"company_number,omitempty"`
	VATNumber             string `json:"vat_number,omitempty"`
	EORINumber            string `json:"eori_number,omitempty"`
	CompanyName           string `json:"company_name,omitempty"`
	EstablishedDate       string `json:"established_date,omitempty"`
	CountryOfRegistration string `json:"country_of_registration,omitempty"`
}

// Empty reports whether no registration field was found
func (c *CompanyRegistration) Empty() bool {
	if c == nil {
		return true
	}
	return c.CompanyNumber == "" && c.VATNumber == "" && c.EORINumber == "" &&
		c.CompanyName == "" && c.EstablishedDate == "" && c.CountryOfRegistration == ""
}

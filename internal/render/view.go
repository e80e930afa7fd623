// Package render turns analysis results into display-ready view models.
// Building a view is a pure mapping: no network, no mutable state, and
// rendering the same result twice yields an identical view.
package render

import (
	"fmt"
	"strings"

	"tradecheck/internal/model"
)

// NotAvailable marks fields the service returned empty
const NotAvailable = "Not available"

// SeverityTier is the display grading of a risk level
type SeverityTier struct {
	Level model.RiskLevel
	Icon  string
	Color string
}

var severityTiers = map[model.RiskLevel]SeverityTier{
	model.RiskHigh:   {Level: model.RiskHigh, Icon: "🔴", Color: "#FF6B6B"},
	model.RiskMedium: {Level: model.RiskMedium, Icon: "🟠", Color: "#F6AE2D"},
	model.RiskLow:    {Level: model.RiskLow, Icon: "🟡", Color: "#D8F26F"},
	model.RiskNone:   {Level: model.RiskNone, Icon: "🟢", Color: "#50E3C2"},
}

// TierFor maps a risk level to its display tier. Unknown levels grade as NONE.
func TierFor(level model.RiskLevel) SeverityTier {
	if tier, ok := severityTiers[level]; ok {
		return tier
	}
	return severityTiers[model.RiskNone]
}

// ReportView is the display-ready form of a Result
type ReportView struct {
	URL          string
	Timestamp    string
	Verdict      string
	FlagsRaised  bool
	Summary      SummaryView
	Flags        []FlagView
	NAICS        NAICSView
	Address      AddressView
	Registration RegistrationView
}

// SummaryView is the business summary block
type SummaryView struct {
	Nature               string
	ProductsServices     string
	CountriesOperating   string
	CountriesDealingWith string
}

// FlagView is one screening check block
type FlagView struct {
	Name           string
	Title          string
	Raised         bool
	Tier           SeverityTier
	Score          int
	Explanation    string
	Matches        string
	EvidenceHeader string
	Evidence       []string
}

// NAICSView is the industry classification block
type NAICSView struct {
	PrimaryCode string
	Codes       string
	Explanation string
}

// AddressView is the address block. Badge is empty when the commercial
// classification is unknown; absence of the boolean renders no badge at all.
type AddressView struct {
	Present    bool
	Address    string
	Badge      string
	Validity   string
	Note       string
	Types      string
	ImagePath  string
	MakesSense string
}

// RegistrationLine is one present company-registration field
type RegistrationLine struct {
	Label string
	Value string
}

// RegistrationView is the company registration block
type RegistrationView struct {
	Present bool
	Lines   []RegistrationLine
	Missing string
}

// HistoryRow is one job in the history view. Results can be opened only for
// completed jobs.
type HistoryRow struct {
	JobID     string
	URL       string
	Status    model.JobStatus
	CreatedAt string
	CanView   bool
}

// BuildReport maps a Result to its view model
func BuildReport(res *model.Result) ReportView {
	view := ReportView{
		URL:         res.URL,
		Timestamp:   res.Timestamp,
		FlagsRaised: res.Flags.AnyFlags,
		Summary: SummaryView{
			Nature:               orNotAvailable(res.Summary.Nature),
			ProductsServices:     orNotAvailable(res.Summary.ProductsServices),
			CountriesOperating:   joinOrNotAvailable(res.Summary.CountriesOperating),
			CountriesDealingWith: joinOrNotAvailable(res.Summary.CountriesDealingWith),
		},
		Flags: []FlagView{
			buildFlag("sanctions", "Sanctions", res.Flags.Sanctions),
			buildFlag("military", "Military", res.Flags.Military),
			buildFlag("dual_use", "Dual-Use Goods", res.Flags.DualUse),
		},
		NAICS: NAICSView{
			PrimaryCode: orNotAvailable(res.NAICS.PrimaryCode),
			Codes:       joinOrNotAvailable(res.NAICS.Codes),
			Explanation: res.NAICS.Explanation,
		},
		Address:      buildAddress(res.Address),
		Registration: buildRegistration(res.CompanyRegistration),
	}

	if res.Flags.AnyFlags {
		view.Verdict = "Export control flags raised"
	} else {
		view.Verdict = "No export control flags raised"
	}
	return view
}

func buildFlag(name, title string, check model.FlagCheck) FlagView {
	return FlagView{
		Name:           name,
		Title:          title,
		Raised:         check.FlagsRaised,
		Tier:           TierFor(check.RiskLevel),
		Score:          check.RiskScore,
		Explanation:    check.RiskExplanation,
		Matches:        strings.Join(check.Matches, ", "),
		EvidenceHeader: evidenceHeader(len(check.Evidence)),
		Evidence:       check.Evidence,
	}
}

func evidenceHeader(n int) string {
	if n == 1 {
		return "Evidence (1 snippet)"
	}
	return fmt.Sprintf("Evidence (%d snippets)", n)
}

func buildAddress(addr *model.Address) AddressView {
	if addr == nil || strings.TrimSpace(addr.Address) == "" {
		return AddressView{Present: false}
	}

	view := AddressView{
		Present:   true,
		Address:   addr.Address,
		Note:      addr.Validation.PlausibilityNote,
		Types:     strings.Join(addr.Validation.AddressTypes, ", "),
		ImagePath: addr.Validation.ImagePath,
	}
	if view.Note == "" {
		view.Note = addr.Validation.Notes
	}

	if addr.Validation.IsCommercial != nil {
		if *addr.Validation.IsCommercial {
			view.Badge = "Commercial"
		} else {
			view.Badge = "Residential"
		}
	}
	if addr.Validation.Valid != nil {
		if *addr.Validation.Valid {
			view.Validity = "Validated"
		} else {
			view.Validity = "Could not validate"
		}
	}
	if addr.MakesSense != nil {
		if *addr.MakesSense {
			view.MakesSense = "Consistent with the stated business"
		} else {
			view.MakesSense = "Inconsistent with the stated business"
		}
	}
	return view
}

func buildRegistration(reg *model.CompanyRegistration) RegistrationView {
	if reg.Empty() {
		return RegistrationView{Missing: "No company registration details found"}
	}

	view := RegistrationView{Present: true}
	add := func(label, value string) {
		if value != "" {
			view.Lines = append(view.Lines, RegistrationLine{Label: label, Value: value})
		}
	}
	add("Company name", reg.CompanyName)
	add("Company number", reg.CompanyNumber)
	add("VAT number", reg.VATNumber)
	add("EORI number", reg.EORINumber)
	add("Established", reg.EstablishedDate)
	add("Country of registration", reg.CountryOfRegistration)
	return view
}

// BuildHistory maps history entries to display rows
func BuildHistory(entries []model.HistoryEntry) []HistoryRow {
	rows := make([]HistoryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, HistoryRow{
			JobID:     entry.JobID,
			URL:       entry.URL,
			Status:    entry.Status,
			CreatedAt: entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			CanView:   entry.Status == model.StatusCompleted,
		})
	}
	return rows
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func joinOrNotAvailable(items []string) string {
	if len(items) == 0 {
		return NotAvailable
	}
	return strings.Join(items, ", ")
}

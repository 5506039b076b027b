// Package types provides type definitions for structured data used throughout the profile exporter.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BusinessModelOther is the business model value that defers to OtherBusinessModel.
const BusinessModelOther = "Other"

// CompanyProfile is the business profile of a company as captured by the
// registration form. Only Name is required; every other field may be empty.
type CompanyProfile struct {
	ID                 string `json:"_id,omitempty"`
	Name               string `json:"name" validate:"required"`
	Sector             string `json:"sector,omitempty"`
	OtherSector        string `json:"otherSector,omitempty"`
	Stage              string `json:"stage,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	Website            string `json:"website,omitempty"`
	Location           string `json:"location,omitempty"`
	FoundedAt          string `json:"foundedAt,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Description        string `json:"description,omitempty"`
	MissionStatement   string `json:"missionStatement,omitempty"`
	EmployeesRange     string `json:"employeesRange,omitempty"`
	BusinessModel      string `json:"businessModel,omitempty"`
	OtherBusinessModel string `json:"otherBusinessModel,omitempty"`

	// Financials
	FundingStatus          string   `json:"fundingStatus,omitempty"`
	AmountRaised           *float64 `json:"amountRaised,omitempty"`
	FundingNeeded          *float64 `json:"fundingNeeded,omitempty"`
	HasBusinessBankAccount bool     `json:"hasBusinessBankAccount,omitempty"`
	KeepsFinancialRecords  string   `json:"keepsFinancialRecords,omitempty"`

	// Founder
	FounderName      string `json:"founderName,omitempty"`
	FounderGender    string `json:"founderGender,omitempty"`
	FounderEducation string `json:"founderEducation,omitempty"`

	// Characteristics
	IsYouthLed                           bool   `json:"isYouthLed,omitempty"`
	IsWomanLed                           bool   `json:"isWomanLed,omitempty"`
	IsInnovative                         bool   `json:"isInnovative,omitempty"`
	InnovationExplanation                string `json:"innovationExplanation,omitempty"`
	HasIntellectualProperty              bool   `json:"hasIntellectualProperty,omitempty"`
	PlanningExpansion                    bool   `json:"planningExpansion,omitempty"`
	EmploysVulnerableGroups              bool   `json:"employsVulnerableGroups,omitempty"`
	AddressesEnvironmentalSustainability bool   `json:"addressesEnvironmentalSustainability,omitempty"`
}

// EffectiveBusinessModel returns the business model to display. A model of
// "Other" resolves to OtherBusinessModel, which may itself be empty.
func (p *CompanyProfile) EffectiveBusinessModel() string {
	if p.BusinessModel == BusinessModelOther {
		return p.OtherBusinessModel
	}
	return p.BusinessModel
}

// Characteristics returns one label per true characteristic flag, in a fixed order.
func (p *CompanyProfile) Characteristics() []string {
	flags := []struct {
		set   bool
		label string
	}{
		{p.IsYouthLed, "Youth-led Business"},
		{p.IsWomanLed, "Woman-led Business"},
		{p.IsInnovative, "Innovative Business"},
		{p.HasIntellectualProperty, "Has Intellectual Property"},
		{p.PlanningExpansion, "Planning Expansion"},
		{p.EmploysVulnerableGroups, "Employs Vulnerable Groups"},
		{p.AddressesEnvironmentalSustainability, "Addresses Environmental Sustainability"},
	}

	var out []string
	for _, f := range flags {
		if f.set {
			out = append(out, f.label)
		}
	}
	return out
}

// HasInnovationNote reports whether the innovation note section has content.
func (p *CompanyProfile) HasInnovationNote() bool {
	return p.IsInnovative && p.InnovationExplanation != ""
}

// FundingRound is a single funding round attached to a company for display.
// The profile does not own its rounds; callers pass them alongside.
type FundingRound struct {
	ID        string   `json:"_id,omitempty"`
	CompanyID string   `json:"companyId,omitempty"`
	RoundType string   `json:"roundType,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Date      string   `json:"date,omitempty"`
	Status    string   `json:"status,omitempty"`
}

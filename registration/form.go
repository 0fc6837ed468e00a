package registration

import (
	"fmt"
)

// InstallationTiming is when an installer should commission the system.
type InstallationTiming string

const (
	TimingNextVisit InstallationTiming = "next-visit"
	TimingASAP      InstallationTiming = "asap"
)

// Month is one entry of the energy check monthly distribution.
type Month struct {
	Month      string  `json:"month"`
	Percentage float64 `json:"percentage"`
	Hours      float64 `json:"hours"`
	Editable   bool    `json:"editable"`
}

// Form is the registration form data collected by the multi-step wizard.
// Tri-state answers are *bool: nil means the question has not been answered yet.
type Form struct {
	// Company
	CompanyName string `json:"companyName"`
	VATNumber   string `json:"vatNumber"`
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`

	// Contact person
	ContactFirstName   string `json:"contactFirstName"`
	ContactLastName    string `json:"contactLastName"`
	ContactEmail       string `json:"contactEmail"`
	ContactPhone       string `json:"contactPhone"`
	ContactCountryCode string `json:"contactCountryCode"`

	// System
	SystemName   string `json:"systemName"`
	XRGIID       string `json:"xrgiId"`
	Model        string `json:"model"`
	SiteAddress  string `json:"siteAddress"`
	SitePostcode string `json:"sitePostcode"`
	SiteCity     string `json:"siteCity"`
	SiteCountry  string `json:"siteCountry"`

	// Service contract
	HasServiceContract          *bool  `json:"hasServiceContract"`
	IsSalesPartnerSame          *bool  `json:"isSalesPartnerSame"`
	InterestedInServiceContract *bool  `json:"interestedInServiceContract"`
	ServiceProviderName         string `json:"serviceProviderName"`
	ServiceProviderEmail        string `json:"serviceProviderEmail"`
	ServiceProviderPhone        string `json:"serviceProviderPhone"`
	ServiceProviderCountryCode  string `json:"serviceProviderCountryCode"`
	SalesPartnerName            string `json:"salesPartnerName"`
	SalesPartnerEmail           string `json:"salesPartnerEmail"`
	SalesPartnerPhone           string `json:"salesPartnerPhone"`
	SalesPartnerCountryCode     string `json:"salesPartnerCountryCode"`

	// Energy Check Plus
	EnergyCheckPlus        bool    `json:"energyCheckPlus"`
	ExpectedAnnualSavings  string  `json:"expectedAnnualSavings"`
	ExpectedCO2Savings     string  `json:"expectedCo2Savings"`
	ExpectedOperatingHours string  `json:"expectedOperatingHours"`
	Industry               string  `json:"industry"`
	RecipientEmails        string  `json:"recipientEmails"`
	DistributeHoursEvenly  bool    `json:"distributeHoursEvenly"`
	MonthlyDistribution    []Month `json:"monthlyDistribution"`

	// Installation
	InstallationRequested bool               `json:"installationRequested"`
	InstallationTiming    InstallationTiming `json:"installationTiming"`
}

// NewForm returns a form with the defaults the wizard starts from.
func NewForm() Form {
	return Form{
		DistributeHoursEvenly: true,
		MonthlyDistribution:   Distribute("", true, nil),
	}
}

func (f *Form) stringFields() map[string]*string {
	return map[string]*string{
		"companyName":                &f.CompanyName,
		"vatNumber":                  &f.VATNumber,
		"address":                    &f.Address,
		"postcode":                   &f.Postcode,
		"city":                       &f.City,
		"email":                      &f.Email,
		"phone":                      &f.Phone,
		"contactFirstName":           &f.ContactFirstName,
		"contactLastName":            &f.ContactLastName,
		"contactEmail":               &f.ContactEmail,
		"contactPhone":               &f.ContactPhone,
		"contactCountryCode":         &f.ContactCountryCode,
		"systemName":                 &f.SystemName,
		"xrgiId":                     &f.XRGIID,
		"model":                      &f.Model,
		"siteAddress":                &f.SiteAddress,
		"sitePostcode":               &f.SitePostcode,
		"siteCity":                   &f.SiteCity,
		"siteCountry":                &f.SiteCountry,
		"serviceProviderName":        &f.ServiceProviderName,
		"serviceProviderEmail":       &f.ServiceProviderEmail,
		"serviceProviderPhone":       &f.ServiceProviderPhone,
		"serviceProviderCountryCode": &f.ServiceProviderCountryCode,
		"salesPartnerName":           &f.SalesPartnerName,
		"salesPartnerEmail":          &f.SalesPartnerEmail,
		"salesPartnerPhone":          &f.SalesPartnerPhone,
		"salesPartnerCountryCode":    &f.SalesPartnerCountryCode,
		"expectedAnnualSavings":      &f.ExpectedAnnualSavings,
		"expectedCo2Savings":         &f.ExpectedCO2Savings,
		"expectedOperatingHours":     &f.ExpectedOperatingHours,
		"industry":                   &f.Industry,
		"recipientEmails":            &f.RecipientEmails,
	}
}

func (f *Form) triStateFields() map[string]**bool {
	return map[string]**bool{
		"hasServiceContract":          &f.HasServiceContract,
		"isSalesPartnerSame":          &f.IsSalesPartnerSame,
		"interestedInServiceContract": &f.InterestedInServiceContract,
	}
}

func (f *Form) boolFields() map[string]*bool {
	return map[string]*bool{
		"energyCheckPlus":       &f.EnergyCheckPlus,
		"distributeHoursEvenly": &f.DistributeHoursEvenly,
		"installationRequested": &f.InstallationRequested,
	}
}

// Update sets a single field by its JSON name. Values follow JSON decoding:
// strings for text fields, bool or nil for tri-state answers.
// Changing the operating hours or the even-distribution switch recomputes
// the monthly distribution.
func (f *Form) Update(field string, value any) error {
	if p, ok := f.stringFields()[field]; ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", field, value)
		}
		*p = s
		if field == "expectedOperatingHours" {
			f.MonthlyDistribution = Distribute(f.ExpectedOperatingHours, f.DistributeHoursEvenly, f.MonthlyDistribution)
		}
		return nil
	}
	if p, ok := f.triStateFields()[field]; ok {
		switch v := value.(type) {
		case nil:
			*p = nil
		case bool:
			*p = &v
		default:
			return fmt.Errorf("field %s: expected bool or null, got %T", field, value)
		}
		return nil
	}
	if p, ok := f.boolFields()[field]; ok {
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s: expected bool, got %T", field, value)
		}
		*p = b
		if field == "distributeHoursEvenly" {
			f.MonthlyDistribution = Distribute(f.ExpectedOperatingHours, f.DistributeHoursEvenly, f.MonthlyDistribution)
		}
		return nil
	}
	switch field {
	case "installationTiming":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", field, value)
		}
		f.InstallationTiming = InstallationTiming(s)
		return nil
	case "monthlyDistribution":
		months, ok := value.([]Month)
		if !ok {
			return fmt.Errorf("field %s: expected []Month, got %T", field, value)
		}
		f.MonthlyDistribution = Distribute(f.ExpectedOperatingHours, f.DistributeHoursEvenly, months)
		return nil
	}
	return fmt.Errorf("unknown field %q", field)
}

package registration

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Messages double as translation keys.
const (
	MsgRequired          = "This field is required"
	MsgAnswerRequired    = "Please select an option"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgInvalidPhone      = "Phone number must contain only digits and be at least 8 characters"
	MsgInvalidXRGIID     = "XRGI ID must be exactly 10 digits"
	MsgHoursRange        = "Expected operating hours must be between 0 and 8760"
	MsgInvalidRecipients = "One or more recipient email addresses are invalid"
	MsgInvalidAmount     = "Please enter a valid non-negative amount"
	MsgMonthHours        = "Hours in a month cannot exceed 730"
	MsgMonthPercentage   = "Each month's percentage must be between 0 and 100"
	MsgTotalOver         = "Total percentage must not exceed 100"
	MsgTotalUnder        = "Total percentage must add up to 100"
	MsgInvalidTiming     = "Please choose next visit or as soon as possible"
)

// Step is one page of the registration wizard.
type Step string

const (
	StepCompany      Step = "company"
	StepContact      Step = "contact"
	StepSystem       Step = "system"
	StepService      Step = "service"
	StepEnergy       Step = "energy"
	StepInstallation Step = "installation"
)

var steps = []Step{StepCompany, StepContact, StepSystem, StepService, StepEnergy, StepInstallation}

// Steps lists the wizard steps in display order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// ParseStep resolves a step name.
func ParseStep(s string) (Step, bool) {
	for _, st := range steps {
		if string(st) == strings.ToLower(strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^[0-9]{8,}$`)
	xrgiIDRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool { return emailRe.MatchString(strings.TrimSpace(s)) }

// ValidPhone reports whether s is digits only and at least 8 long.
func ValidPhone(s string) bool { return phoneRe.MatchString(strings.TrimSpace(s)) }

// ValidXRGIID reports whether s is exactly 10 digits.
func ValidXRGIID(s string) bool { return xrgiIDRe.MatchString(strings.TrimSpace(s)) }

// Result maps field names to the message shown beneath the field.
// Monthly errors are keyed "monthlyDistribution.<index>".
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Validator checks forms. Tolerance bounds the allowed deviation of the
// monthly percentages from 100.
type Validator struct {
	Tolerance float64
}

// Validate checks every step of f with the default tolerance.
func Validate(f Form) Result {
	return Validator{Tolerance: DefaultTolerance}.Validate(f)
}

// ValidateStep checks a single step of f with the default tolerance.
func ValidateStep(f Form, s Step) Result {
	return Validator{Tolerance: DefaultTolerance}.ValidateStep(f, s)
}

func (v Validator) Validate(f Form) Result {
	errs := fieldErrors{}
	for _, s := range steps {
		v.check(errs, f, s)
	}
	return errs.result()
}

func (v Validator) ValidateStep(f Form, s Step) Result {
	errs := fieldErrors{}
	v.check(errs, f, s)
	return errs.result()
}

func (v Validator) check(errs fieldErrors, f Form, s Step) {
	switch s {
	case StepCompany:
		errs.required("companyName", f.CompanyName)
		errs.required("vatNumber", f.VATNumber)
		errs.required("address", f.Address)
		errs.required("postcode", f.Postcode)
		errs.required("city", f.City)
		errs.email("email", f.Email)
		errs.phone("phone", f.Phone)
	case StepContact:
		errs.required("contactFirstName", f.ContactFirstName)
		errs.required("contactLastName", f.ContactLastName)
		errs.email("contactEmail", f.ContactEmail)
		errs.phone("contactPhone", f.ContactPhone)
	case StepSystem:
		errs.required("systemName", f.SystemName)
		if errs.required("xrgiId", f.XRGIID) && !ValidXRGIID(f.XRGIID) {
			errs["xrgiId"] = MsgInvalidXRGIID
		}
		errs.required("model", f.Model)
		errs.required("siteAddress", f.SiteAddress)
		errs.required("sitePostcode", f.SitePostcode)
		errs.required("siteCity", f.SiteCity)
		errs.required("siteCountry", f.SiteCountry)
	case StepService:
		v.checkService(errs, f)
	case StepEnergy:
		v.checkEnergy(errs, f)
	case StepInstallation:
		if f.InstallationRequested && f.InstallationTiming != TimingNextVisit && f.InstallationTiming != TimingASAP {
			errs["installationTiming"] = MsgInvalidTiming
		}
	}
}

func (v Validator) checkService(errs fieldErrors, f Form) {
	if f.HasServiceContract == nil {
		errs["hasServiceContract"] = MsgAnswerRequired
		return
	}
	if !*f.HasServiceContract {
		return
	}
	errs.required("serviceProviderName", f.ServiceProviderName)
	errs.email("serviceProviderEmail", f.ServiceProviderEmail)
	errs.phone("serviceProviderPhone", f.ServiceProviderPhone)
	if f.IsSalesPartnerSame == nil {
		errs["isSalesPartnerSame"] = MsgAnswerRequired
		return
	}
	if *f.IsSalesPartnerSame {
		return
	}
	errs.required("salesPartnerName", f.SalesPartnerName)
	errs.email("salesPartnerEmail", f.SalesPartnerEmail)
	errs.phone("salesPartnerPhone", f.SalesPartnerPhone)
}

func (v Validator) checkEnergy(errs fieldErrors, f Form) {
	if !f.EnergyCheckPlus {
		return
	}
	if errs.required("expectedOperatingHours", f.ExpectedOperatingHours) {
		h, err := decimal.NewFromString(strings.TrimSpace(f.ExpectedOperatingHours))
		if err != nil || h.IsNegative() || h.GreaterThan(decimal.NewFromInt(MaxYearHours)) {
			errs["expectedOperatingHours"] = MsgHoursRange
		}
	}
	errs.required("industry", f.Industry)
	if errs.required("recipientEmails", f.RecipientEmails) {
		for _, addr := range strings.Split(f.RecipientEmails, ",") {
			if !ValidEmail(addr) {
				errs["recipientEmails"] = MsgInvalidRecipients
				break
			}
		}
	}
	errs.amount("expectedAnnualSavings", f.ExpectedAnnualSavings)
	errs.amount("expectedCo2Savings", f.ExpectedCO2Savings)

	if f.DistributeHoursEvenly {
		return
	}
	months := Distribute(f.ExpectedOperatingHours, false, f.MonthlyDistribution)
	for i, msg := range MonthErrors(months) {
		errs["monthlyDistribution."+strconv.Itoa(i)] = msg
	}
	for i, m := range months {
		if !validPercentage(m.Percentage) {
			errs["monthlyDistribution."+strconv.Itoa(i)] = MsgMonthPercentage
		}
	}
	if tc := CheckTotal(months, v.Tolerance); !tc.Valid {
		errs["monthlyDistribution"] = tc.Message
	}
}

type fieldErrors map[string]string

func (e fieldErrors) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e[field] = MsgRequired
		return false
	}
	return true
}

func (e fieldErrors) email(field, value string) {
	if e.required(field, value) && !ValidEmail(value) {
		e[field] = MsgInvalidEmail
	}
}

func (e fieldErrors) phone(field, value string) {
	if e.required(field, value) && !ValidPhone(value) {
		e[field] = MsgInvalidPhone
	}
}

// amount accepts an empty value; anything else must be a non-negative decimal.
func (e fieldErrors) amount(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		e[field] = MsgInvalidAmount
	}
}

func (e fieldErrors) result() Result {
	if len(e) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Errors: map[string]string(e)}
}

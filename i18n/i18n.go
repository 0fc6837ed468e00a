package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"xrgi-portal/backend/registration"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

var supported = []language.Tag{language.English, language.German, language.Danish}

var matcher = language.NewMatcher(supported)

// Messages are keyed by their English text so untranslated keys fall back to English.
var translations = map[language.Tag]map[string]string{
	language.German: {
		registration.MsgRequired:          "Dieses Feld ist erforderlich",
		registration.MsgAnswerRequired:    "Bitte wählen Sie eine Option",
		registration.MsgInvalidEmail:      "Bitte geben Sie eine gültige E-Mail-Adresse ein",
		registration.MsgInvalidPhone:      "Die Telefonnummer darf nur Ziffern enthalten und muss mindestens 8 Zeichen lang sein",
		registration.MsgInvalidXRGIID:     "Die XRGI-ID muss genau 10 Ziffern haben",
		registration.MsgHoursRange:        "Die erwarteten Betriebsstunden müssen zwischen 0 und 8760 liegen",
		registration.MsgInvalidRecipients: "Eine oder mehrere Empfängeradressen sind ungültig",
		registration.MsgInvalidAmount:     "Bitte geben Sie einen gültigen, nicht negativen Betrag ein",
		registration.MsgMonthHours:        "Die Stunden eines Monats dürfen 730 nicht überschreiten",
		registration.MsgMonthPercentage:   "Der Prozentwert eines Monats muss zwischen 0 und 100 liegen",
		registration.MsgTotalOver:         "Die Summe der Prozentwerte darf 100 nicht überschreiten",
		registration.MsgTotalUnder:        "Die Summe der Prozentwerte muss 100 ergeben",
		registration.MsgInvalidTiming:     "Bitte wählen Sie nächster Besuch oder so bald wie möglich",
		MsgInvalidCredentials:             "Ungültige Anmeldedaten",
		MsgPasswordMismatch:               "Die Passwörter stimmen nicht überein",
		MsgPasswordTooShort:               "Das Passwort muss mindestens 8 Zeichen lang sein",
		MsgEmailTaken:                     "Diese E-Mail-Adresse ist bereits registriert",
		MsgResetTokenInvalid:              "Der Link zum Zurücksetzen ist ungültig oder abgelaufen",
		MsgDeviceClaimed:                  "Diese XRGI-ID ist bereits einem anderen Konto zugeordnet",
	},
	language.Danish: {
		registration.MsgRequired:          "Dette felt er påkrævet",
		registration.MsgAnswerRequired:    "Vælg venligst en mulighed",
		registration.MsgInvalidEmail:      "Indtast venligst en gyldig e-mailadresse",
		registration.MsgInvalidPhone:      "Telefonnummeret må kun indeholde cifre og skal være mindst 8 tegn",
		registration.MsgInvalidXRGIID:     "XRGI-ID skal være præcis 10 cifre",
		registration.MsgHoursRange:        "Forventede driftstimer skal være mellem 0 og 8760",
		registration.MsgInvalidRecipients: "En eller flere modtageradresser er ugyldige",
		registration.MsgInvalidAmount:     "Indtast venligst et gyldigt, ikke-negativt beløb",
		registration.MsgMonthHours:        "Timer i en måned må ikke overstige 730",
		registration.MsgMonthPercentage:   "Procentdelen for en måned skal være mellem 0 og 100",
		registration.MsgTotalOver:         "Den samlede procentdel må ikke overstige 100",
		registration.MsgTotalUnder:        "Den samlede procentdel skal give 100",
		registration.MsgInvalidTiming:     "Vælg venligst næste besøg eller hurtigst muligt",
		MsgInvalidCredentials:             "Ugyldige loginoplysninger",
		MsgPasswordMismatch:               "Adgangskoderne er ikke ens",
		MsgPasswordTooShort:               "Adgangskoden skal være mindst 8 tegn",
		MsgEmailTaken:                     "Denne e-mailadresse er allerede registreret",
		MsgResetTokenInvalid:              "Nulstillingslinket er ugyldigt eller udløbet",
		MsgDeviceClaimed:                  "Dette XRGI-ID er allerede tilknyttet en anden konto",
	},
}

// Auth messages shown to end users.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 8 characters"
	MsgEmailTaken         = "This email address is already registered"
	MsgResetTokenInvalid  = "The reset link is invalid or has expired"
)

// MsgDeviceClaimed is returned when another account already registered the XRGI ID.
const MsgDeviceClaimed = "This XRGI ID is already registered to another account"

func init() {
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := message.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// Supported returns the languages messages are available in.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match picks the best supported language for the given preferences,
// e.g. a lang query value and an Accept-Language header.
func Match(prefs ...string) language.Tag {
	_, idx := language.MatchStrings(matcher, prefs...)
	return supported[idx]
}

// ResolveTag determines the language for a request: ?lang= wins over
// Accept-Language, and fallback is used when neither is present.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	lang := strings.TrimSpace(r.URL.Query().Get(LangParam))
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if lang == "" && accept == "" {
		return fallback
	}
	return Match(lang, accept)
}

// Translate returns msg in the language of tag.
func Translate(tag language.Tag, msg string) string {
	return message.NewPrinter(tag).Sprintf(msg)
}

// TranslateErrors localizes a field error map in place and returns it.
func TranslateErrors(tag language.Tag, errs map[string]string) map[string]string {
	p := message.NewPrinter(tag)
	for field, msg := range errs {
		errs[field] = p.Sprintf(msg)
	}
	return errs
}

// Package privacy redacts personally identifiable information from resume
// text before it leaves the machine. Redaction is irreversible and idempotent:
// placeholders contain no digits or at-signs, so running the filter twice is a
// no-op.
package privacy

import "regexp"

// Kind identifies a category of sensitive data found in the text.
type Kind string

const (
	KindPhone    Kind = "phone"
	KindEmail    Kind = "email"
	KindIDCard   Kind = "id_card"
	KindAddress  Kind = "address"
	KindBankCard Kind = "bank_card"
	KindPassport Kind = "passport"
)

// Placeholders substituted for each kind of match.
const (
	placeholderPhone    = "[手机号已隐藏]"
	placeholderEmail    = "[邮箱已隐藏]"
	placeholderIDCard   = "[身份证号已隐藏]"
	placeholderAddress  = "[详细地址已隐藏]"
	placeholderBankCard = "[银行卡号已隐藏]"
	placeholderPassport = "[护照号已隐藏]"
)

var (
	// Chinese mobile numbers: 11 digits starting with 1[3-9].
	phonePattern = regexp.MustCompile(`1[3-9]\d{9}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// National ID: 17 digits plus checksum digit/X, or the legacy 15-digit form.
	idCardPattern = regexp.MustCompile(`\d{17}[\dXx]|\d{15}`)
	// Structured address: province + city + district + street + house number.
	addressPattern = regexp.MustCompile(`[^，。,.\s]{2,4}省[^，。,.\s]{2,4}市[^，。,.\s]{2,6}区[^，。,.]{3,20}[路街道巷弄里村镇][^，。,.]{0,20}号[^，。,.]{0,10}`)
	// Candidate card numbers: replaced only when the run is at least 16 digits
	// long, so years and short codes survive.
	bankCardPattern = regexp.MustCompile(`\d{13,19}`)
	passportPattern = regexp.MustCompile(`[EeGgPpSs]\d{8}`)
)

// Result is the outcome of a Sanitize call.
type Result struct {
	Text     string
	Redacted []Kind
}

// Modified reports whether any substitution happened.
func (r Result) Modified() bool {
	return len(r.Redacted) > 0
}

// KindNames converts kinds to plain strings for log fields.
func KindNames(kinds []Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// Sanitize replaces sensitive substrings with fixed placeholders and reports
// which kinds were found. The pass order matters: the more specific address
// and ID patterns run before the generic long-digit-run pass so a value is
// never redacted twice. The input is not mutated.
func Sanitize(text string) Result {
	if text == "" {
		return Result{Text: text}
	}

	result := Result{Text: text}

	result.apply(KindPhone, func(s string) (string, bool) {
		return replaceIfMatch(phonePattern, s, placeholderPhone)
	})
	result.apply(KindEmail, func(s string) (string, bool) {
		return replaceIfMatch(emailPattern, s, placeholderEmail)
	})
	result.apply(KindIDCard, func(s string) (string, bool) {
		return replaceIfMatch(idCardPattern, s, placeholderIDCard)
	})
	result.apply(KindAddress, func(s string) (string, bool) {
		return replaceIfMatch(addressPattern, s, placeholderAddress)
	})
	result.apply(KindBankCard, replaceBankCards)
	result.apply(KindPassport, func(s string) (string, bool) {
		return replaceIfMatch(passportPattern, s, placeholderPassport)
	})

	return result
}

// Detect reports which kinds of sensitive data are present without modifying
// the text.
func Detect(text string) []Kind {
	if text == "" {
		return nil
	}

	var kinds []Kind
	if phonePattern.MatchString(text) {
		kinds = append(kinds, KindPhone)
	}
	if emailPattern.MatchString(text) {
		kinds = append(kinds, KindEmail)
	}
	if idCardPattern.MatchString(text) {
		kinds = append(kinds, KindIDCard)
	}
	if addressPattern.MatchString(text) {
		kinds = append(kinds, KindAddress)
	}
	if _, found := replaceBankCards(text); found {
		kinds = append(kinds, KindBankCard)
	}
	if passportPattern.MatchString(text) {
		kinds = append(kinds, KindPassport)
	}

	return kinds
}

func (r *Result) apply(kind Kind, replace func(string) (string, bool)) {
	text, found := replace(r.Text)
	r.Text = text
	if found {
		r.Redacted = append(r.Redacted, kind)
	}
}

func replaceIfMatch(pattern *regexp.Regexp, text, placeholder string) (string, bool) {
	if !pattern.MatchString(text) {
		return text, false
	}

	return pattern.ReplaceAllString(text, placeholder), true
}

func replaceBankCards(text string) (string, bool) {
	found := false
	replaced := bankCardPattern.ReplaceAllStringFunc(text, func(match string) string {
		if len(match) < 16 {
			return match
		}
		found = true
		return placeholderBankCard
	})

	return replaced, found
}

package form

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"CareerBot/model"
)

// FieldErrors maps a field key (e.g. "exp-0-companyName") to a message.
type FieldErrors map[string]string

func (fe FieldErrors) add(field, msg string) {
	if msg != "" {
		fe[field] = msg
	}
}

// Sorted returns "field: message" lines in a stable order.
func (fe FieldErrors) Sorted() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return out
}

const dateLayout = "2006-01-02"

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern      = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern     = regexp.MustCompile(`^[0-9]{6}$`)
	personNamePattern  = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	institutionPattern = regexp.MustCompile(`^[a-zA-Z0-9\s.,'-]+$`)
	gradePattern       = regexp.MustCompile(`(?i)^[A-F][+-]?$`)
	companyPattern     = regexp.MustCompile(`^[a-zA-Z0-9\s.,&'-]+$`)
	jobTitlePattern    = regexp.MustCompile(`^[a-zA-Z0-9\s./-]+$`)
	projectPattern     = regexp.MustCompile(`^[a-zA-Z0-9\s.,-]+$`)
	skillPattern       = regexp.MustCompile(`^[a-zA-Z0-9\s.+#-]+$`)
	certTitlePattern   = regexp.MustCompile(`^[a-zA-Z0-9\s.,\-:()]+$`)
	certDomainPattern  = regexp.MustCompile(`^[a-zA-Z0-9\s.,\-/&]+$`)
	providerPattern    = regexp.MustCompile(`^[a-zA-Z0-9\s.,&'-]+$`)
	urlPattern         = regexp.MustCompile(`^(https?://)?([\w-]+(\.[\w-]+)+)([\w\-.,@?^=%&:/~+#]*[\w\-@?^=%&/~+#])?$`)
	accountPattern     = regexp.MustCompile(`^[0-9]{9,18}$`)
	ifscPattern        = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	yearPattern        = regexp.MustCompile(`^[0-9]{4}$`)
)

func required(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	return ""
}

// matches reports a message when a non-empty value falls outside pattern.
func matches(value string, pattern *regexp.Regexp, msg string) string {
	if value != "" && !pattern.MatchString(value) {
		return msg
	}
	return ""
}

func validResult(value, format string) string {
	if value == "" || format == "" {
		return ""
	}
	switch format {
	case "Percentage":
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "Must be a number"
		}
		if p < 0 || p > 100 {
			return "Must be between 0-100"
		}
	case "CGPA":
		c, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "Must be a number"
		}
		if c < 0 || c > 10 {
			return "Must be between 0-10"
		}
	case "Grade":
		if !gradePattern.MatchString(value) {
			return "Enter valid grade (A, B+, etc.)"
		}
	default:
		return "Result format must be Percentage, CGPA or Grade"
	}
	return ""
}

// validRange compares start and end lexically, which is correct for the
// zero-padded YYYY and YYYY-MM-DD values the forms accept.
func validRange(start, end string) string {
	if start != "" && end != "" && end < start {
		return "End date cannot be before start date"
	}
	return ""
}

func validDate(value string) string {
	if value == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "Use the YYYY-MM-DD format"
	}
	return ""
}

func validYear(value string) string {
	return matches(value, yearPattern, "Use a four digit year")
}

func validURL(value, kind string) string {
	if value == "" {
		return ""
	}
	if !urlPattern.MatchString(value) {
		return fmt.Sprintf("Invalid %s URL format", kind)
	}
	switch kind {
	case "LinkedIn":
		if !strings.Contains(value, "linkedin.com") {
			return "Please enter a valid LinkedIn URL"
		}
	case "GitHub":
		if !strings.Contains(value, "github.com") {
			return "Please enter a valid GitHub URL"
		}
	}
	return ""
}

// validRating accepts 0 (not rated) or a value on the rating scale.
func validRating(v int) string {
	if v != 0 && (v < model.MinRating || v > model.MaxRating) {
		return fmt.Sprintf("Rate from %d to %d", model.MinRating, model.MaxRating)
	}
	return ""
}

func validComment(v string) string {
	if utf8.RuneCountInString(v) > model.MaxCommentLength {
		return fmt.Sprintf("Keep comments under %d characters", model.MaxCommentLength)
	}
	return ""
}

package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

var (
	// phoneRegexp matches Kenyan mobile numbers with an optional +254, 254 or 0
	// prefix, tolerating spaces, parentheses and hyphens between groups.
	phoneRegexp = regexp.MustCompile(`(?:\+254|254|0)?[\s()\-]{0,2}[17]\d{2}[\s()\-]{0,2}\d{3}[\s\-]?\d{3}`)
	emailRegexp = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// NormalizeContact accepts nil, a free-text string, or a contact object
// (map[string]any or map[string]string) and returns a Contact with canonical
// phone numbers.
func NormalizeContact(input any) models.Contact {
	contact := models.Contact{Phone: []string{}}

	switch v := input.(type) {
	case nil:
	case string:
		contact.Phone = ExtractPhones(v)
		contact.Email = extractEmail(v)
	case map[string]string:
		obj := make(map[string]any, len(v))
		for k, val := range v {
			obj[k] = val
		}
		fillContact(&contact, obj)
	case map[string]any:
		fillContact(&contact, v)
	case models.RawListing:
		fillContact(&contact, v)
	}
	return contact
}

func fillContact(c *models.Contact, obj map[string]any) {
	raw := models.RawListing(obj)

	if name := strings.TrimSpace(raw.String("name", "agentName")); name != "" {
		c.Name = &name
	}
	c.Phone = ExtractPhones(flattenText(raw.Value("phone", "phoneNumber", "mobile")))
	if wa := ExtractPhones(flattenText(raw.Value("whatsapp"))); len(wa) > 0 {
		first := wa[0]
		c.WhatsApp = &first
	}
	c.Email = extractEmail(flattenText(raw.Value("email", "mail")))
}

// ExtractPhones returns every Kenyan mobile number in text as +254XXXXXXXXX,
// deduplicated in first-seen order.
func ExtractPhones(text string) []string {
	phones := []string{}
	seen := make(map[string]struct{})

	for _, match := range phoneRegexp.FindAllString(text, -1) {
		phone := canonicalPhone(match)
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones
}

func canonicalPhone(match string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '-' {
			return -1
		}
		return r
	}, match)

	switch {
	case strings.HasPrefix(digits, "0"):
		return "+254" + digits[1:]
	case strings.HasPrefix(digits, "254"):
		return "+" + digits
	case !strings.HasPrefix(digits, "+"):
		return "+254" + digits
	default:
		return digits
	}
}

func extractEmail(text string) *string {
	match := emailRegexp.FindString(text)
	if match == "" {
		return nil
	}
	email := strings.ToLower(match)
	return &email
}

// flattenText turns a scalar or list value into one searchable string.
func flattenText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flattenText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

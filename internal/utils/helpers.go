package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var salaryPatterns = compileAll(
	// Ranges with K suffix
	`\$\d{2,3}K\s*-\s*\$\d{2,3}K`,
	`\$\d{2,3},\d{3}\s*-\s*\$\d{2,3},\d{3}`,
	// Single values with K suffix
	`\$\d{2,3}K`,
	`\$\d{2,3},\d{3}`,
	// Hourly rates
	`\$\d{2,3}(?:\.\d{2})?\s*(?:per hour|\/hr|\/hour)`,
	// Annual salary indicators
	`\$\d{2,3}(?:,\d{3})?\s*(?:per year|\/year|annual|annually)`,
)

// Salary fragments that scraped location strings sometimes carry
var locationSalaryPatterns = compileAll(
	`\$[\d,]+k?(?:\s*-\s*\$[\d,]+k?)?`,
	`[\d,]+k\s*-\s*[\d,]+k`,
	`[\d,]+k\+`,
	`£[\d,]+k?(?:\s*-\s*£[\d,]+k?)?`,
	`[\d,]+-[\d,]+`,
)

var (
	locationJunk = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,()$£]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

// FindSalaryInText attempts to find salary information in text using common patterns
func FindSalaryInText(text string) string {
	for _, re := range salaryPatterns {
		if match := re.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

// ExtractNumericValue extracts numeric value from a salary string
func ExtractNumericValue(salaryStr string) int {
	// Remove any currency symbols, commas, and spaces
	salaryStr = strings.TrimSpace(salaryStr)
	salaryStr = strings.ReplaceAll(salaryStr, "$", "")
	salaryStr = strings.ReplaceAll(salaryStr, ",", "")

	// A range counts by its lower bound
	if lo, _, found := strings.Cut(salaryStr, "-"); found {
		salaryStr = strings.TrimSpace(lo)
	}

	// Handle "K" suffix (e.g., "100K" -> 100000)
	upper := strings.ToUpper(salaryStr)
	if strings.HasSuffix(upper, "K") {
		if val, err := strconv.Atoi(strings.TrimSuffix(upper, "K")); err == nil {
			return val * 1000
		}
	}

	if val, err := strconv.Atoi(salaryStr); err == nil {
		return val
	}
	return 0
}

// FormatSalary formats a salary string with a dollar sign and thousands separators
func FormatSalary(salary string) string {
	if salary == "" || salary == "Not Available" || salary == "Not Specified" {
		return salary
	}
	// Ranges are shown as entered
	if strings.Contains(salary, "-") {
		return salary
	}

	value := ExtractNumericValue(salary)
	if value == 0 {
		return salary
	}
	return fmt.Sprintf("$%s", humanize.Comma(int64(value)))
}

// CleanLocation strips emojis and salary fragments from a scraped location and
// canonicalizes common country and remote spellings
func CleanLocation(location string) string {
	if location == "" {
		return location
	}

	cleaned := locationJunk.ReplaceAllString(location, "")
	for _, re := range locationSalaryPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
	cleaned = strings.Trim(cleaned, " ,-")

	switch strings.ToLower(cleaned) {
	case "usa", "us", "united states":
		return "USA"
	case "uk", "united kingdom":
		return "UK"
	case "remote", "work from home", "wfh":
		return "Remote"
	}
	return cleaned
}

// IsRemote reports whether a location or title advertises remote work
func IsRemote(title, location string) bool {
	title = strings.ToLower(title)
	location = strings.ToLower(location)
	for _, marker := range []string{"remote", "anywhere", "work from home", "wfh"} {
		if strings.Contains(location, marker) || strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

// TruncateString shortens s to at most max runes, marking the cut with "..."
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

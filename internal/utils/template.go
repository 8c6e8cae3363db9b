package utils

import (
	"regexp"
	"strings"
)

// MinContentLength is the minimum trimmed length accepted for prompt content.
const MinContentLength = 10

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ValidateContent reports whether prompt content is acceptable: not empty,
// not just whitespace, and at least MinContentLength characters once trimmed.
func ValidateContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	return len(trimmed) >= MinContentLength
}

// ExtractVariables returns the template variable names embedded in prompt
// content. Variables use the {{variable_name}} form.
func ExtractVariables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)
	variables := make([]string, 0, len(matches))
	for _, m := range matches {
		variables = append(variables, m[1])
	}
	return variables
}

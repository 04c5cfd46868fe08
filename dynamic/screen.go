package dynamic

import (
	"regexp"
	"sort"
	"strings"
)

// Finding is one disallowed pattern found in component source.
type Finding struct {
	Pattern string
	Line    int
	Column  int
	Excerpt string
}

type screenRule struct {
	name string
	re   *regexp.Regexp
}

var screenRules = []screenRule{
	{name: "fetch", re: regexp.MustCompile(`\bfetch\s*\(`)},
	{name: "XMLHttpRequest", re: regexp.MustCompile(`\bXMLHttpRequest\b`)},
	{name: "localStorage", re: regexp.MustCompile(`\blocalStorage\b`)},
	{name: "sessionStorage", re: regexp.MustCompile(`\bsessionStorage\b`)},
	{name: "document.", re: regexp.MustCompile(`\bdocument\s*\.`)},
	{name: "window.", re: regexp.MustCompile(`\bwindow\s*\.`)},
	{name: "eval(", re: regexp.MustCompile(`\beval\s*\(`)},
	{name: "new Function", re: regexp.MustCompile(`\bnew\s+Function\b`)},
	{name: "import(", re: regexp.MustCompile(`\bimport\s*\(`)},
}

// Screen reports disallowed patterns in code. It is advisory: the sandbox
// does not depend on it and a clean report does not make code safe.
func Screen(code string) []Finding {
	var findings []Finding
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		for _, rule := range screenRules {
			for _, loc := range rule.re.FindAllStringIndex(line, -1) {
				findings = append(findings, Finding{
					Pattern: rule.name,
					Line:    i + 1,
					Column:  loc[0] + 1,
					Excerpt: strings.TrimSpace(line),
				})
			}
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
	return findings
}

// Clean reports whether Screen found nothing.
func Clean(code string) bool {
	return len(Screen(code)) == 0
}

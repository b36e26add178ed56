package a

import (
	"regexp"
	"strings"
)

func badRegexp(texts []string) {
	for _, text := range texts {
		re := regexp.MustCompile(`Q\d+`) // want "regexp.MustCompile called inside loop"
		_ = re.FindAllString(text, -1)
	}
}

func badReplacer(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		r := strings.NewReplacer(`"`, `\"`) // want "strings.NewReplacer called inside loop"
		out = append(out, r.Replace(l))
	}
	return out
}

var escaper = strings.NewReplacer(`"`, `\"`)

func good(labels []string) []string {
	re := regexp.MustCompile(`Q\d+`)
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if re.MatchString(l) {
			out = append(out, escaper.Replace(l))
		}
	}
	return out
}

type fake struct{}

func (fake) MustCompile(string) {}

func notRegexp(texts []string) {
	var regexp fake
	for _, text := range texts {
		regexp.MustCompile(text)
	}
}

package rules

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/openkraft/apigrade/internal/domain"
)

// crudVerbs are words that duplicate what the HTTP method already says.
var crudVerbs = map[string]bool{
	"get": true, "fetch": true, "retrieve": true, "list": true,
	"create": true, "add": true, "insert": true, "save": true,
	"update": true, "modify": true, "edit": true, "set": true, "put": true, "patch": true,
	"delete": true, "remove": true, "destroy": true, "del": true,
}

// mutatingVerbs are the subset of crudVerbs that imply a state change.
var mutatingVerbs = map[string]bool{
	"create": true, "add": true, "insert": true, "save": true,
	"update": true, "modify": true, "edit": true, "set": true, "put": true, "patch": true,
	"delete": true, "remove": true, "destroy": true, "del": true,
}

// uncountable nouns read the same in singular and plural.
var uncountable = map[string]bool{
	"data": true, "metadata": true, "media": true, "news": true, "series": true,
	"info": true, "information": true, "feedback": true, "equipment": true,
	"people": true, "children": true, "men": true, "women": true, "criteria": true,
	"software": true, "inventory": true, "staff": true, "analytics": true,
}

var (
	versionSegment = regexp.MustCompile(`^v[0-9]+(\.[0-9]+)*$`)
	kebabSegment   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// splitWords breaks an identifier into lower-case words on case changes,
// digits, hyphens and underscores.
func splitWords(s string) []string {
	var words []string
	for _, w := range camelcase.Split(s) {
		hasAlnum := false
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				hasAlnum = true
				break
			}
		}
		if hasAlnum {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// leadingVerb returns the first word of seg when it is a CRUD verb.
func leadingVerb(seg string, verbs map[string]bool) (string, bool) {
	words := splitWords(stripExtension(seg))
	if len(words) == 0 || !verbs[words[0]] {
		return "", false
	}
	return words[0], true
}

func isVersionSegment(seg string) bool {
	return versionSegment.MatchString(strings.ToLower(seg))
}

// isPlural is a heuristic: English plurals mostly end in "s", but words
// ending in "ss", "us" or "is" are usually singular.
func isPlural(word string) bool {
	w := strings.ToLower(word)
	if uncountable[w] {
		return true
	}
	if !strings.HasSuffix(w, "s") {
		return false
	}
	for _, suffix := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(w, suffix) {
			return false
		}
	}
	return true
}

// pluralize returns a plausible plural for a singular noun.
func pluralize(word string) string {
	w := strings.ToLower(word)
	switch {
	case uncountable[w]:
		return word
	case strings.HasSuffix(w, "y") && len(w) > 1 && !strings.ContainsRune("aeiou", rune(w[len(w)-2])):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(w, "s"), strings.HasSuffix(w, "x"), strings.HasSuffix(w, "z"),
		strings.HasSuffix(w, "ch"), strings.HasSuffix(w, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// lastWord returns the final word of a kebab/camel/snake segment.
func lastWord(seg string) string {
	words := splitWords(seg)
	if len(words) == 0 {
		return seg
	}
	return words[len(words)-1]
}

// isPluralSegment applies isPlural to the final word of a segment.
func isPluralSegment(seg string) bool {
	return isPlural(lastWord(stripExtension(seg)))
}

// toKebab rewrites a segment in kebab-case.
func toKebab(seg string) string {
	return strings.Join(splitWords(seg), "-")
}

// stripExtension drops a trailing ".ext" from a segment. A leading dot, as
// in RFC 8615 ".well-known", is not part of the name.
func stripExtension(seg string) string {
	seg = strings.TrimPrefix(seg, ".")
	if i := strings.LastIndex(seg, "."); i > 0 {
		return seg[:i]
	}
	return seg
}

// resourceSegments returns literal segments that name resources: version
// and "api" prefixes are skipped.
func resourceSegments(segs []domain.PathSegment) []domain.PathSegment {
	var out []domain.PathSegment
	for _, s := range segs {
		if s.Param || isVersionSegment(s.Value) || strings.EqualFold(s.Value, "api") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// isPluralCollection reports whether the endpoint addresses a collection
// named by a plural noun (/users, /orders/{id}/items).
func isPluralCollection(ep domain.Endpoint) bool {
	if !ep.IsCollection() {
		return false
	}
	last := ep.Segments[len(ep.Segments)-1].Value
	if isVersionSegment(last) {
		return false
	}
	return isPluralSegment(last)
}

// casing classifies an identifier's naming convention.
type casing string

const (
	casingNone   casing = ""
	casingCamel  casing = "camelCase"
	casingPascal casing = "PascalCase"
	casingSnake  casing = "snake_case"
	casingKebab  casing = "kebab-case"
)

// classifyCasing returns casingNone for single-word lower-case names, which
// fit every convention.
func classifyCasing(name string) casing {
	switch {
	case strings.Contains(name, "_"):
		return casingSnake
	case strings.Contains(name, "-"):
		return casingKebab
	case name != "" && unicode.IsUpper([]rune(name)[0]):
		return casingPascal
	case strings.IndexFunc(name, unicode.IsUpper) > 0:
		return casingCamel
	default:
		return casingNone
	}
}

package geopoint

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// ErrNoCoordinates is returned by Parse when the text holds no coordinate.
var ErrNoCoordinates = eris.New("geopoint: no coordinates found")

// Match is a coordinate occurrence inside a text. Start and End are byte
// offsets, End exclusive.
type Match struct {
	Point Point
	Start int
	End   int
}

// Building blocks shared by the hemisphere-prefixed patterns. Minute and
// second marks must touch their number so a following quoted note is never
// swallowed.
const (
	degSep  = `(?:\s*°\s*|\s+)`
	minSep  = `(?:['′]\s*|\s+)`
	frac    = `(?:[.,]\d+)`
	pairSep = `\s*[,/;·]?\s*`
	secMark = `(?:"|″|'')?`
	minMark = `['′]?`
	degMark = `(?:\s*°)?`
)

type pattern struct {
	name    string
	re      *regexp.Regexp
	convert func(g []string) (Point, bool)
}

var patterns = []pattern{
	{
		name: "dms",
		re: regexp.MustCompile(
			`([NS])\s?(\d{1,2})` + degSep + `(\d{1,2})` + minSep + `(\d{1,2}` + frac + `?)` + secMark +
				pairSep +
				`([EW])\s?(\d{1,3})` + degSep + `(\d{1,2})` + minSep + `(\d{1,2}` + frac + `?)` + secMark),
		convert: func(g []string) (Point, bool) {
			lat, ok := dms(g[1], g[2], g[3], g[4])
			if !ok {
				return Point{}, false
			}
			lon, ok := dms(g[5], g[6], g[7], g[8])
			if !ok {
				return Point{}, false
			}
			return build(lat, lon)
		},
	},
	{
		name: "dmm",
		re: regexp.MustCompile(
			`([NS])\s?(\d{1,2})` + degSep + `(\d{1,2}` + frac + `)` + minMark +
				pairSep +
				`([EW])\s?(\d{1,3})` + degSep + `(\d{1,2}` + frac + `)` + minMark),
		convert: func(g []string) (Point, bool) {
			lat, ok := dms(g[1], g[2], g[3], "0")
			if !ok {
				return Point{}, false
			}
			lon, ok := dms(g[4], g[5], g[6], "0")
			if !ok {
				return Point{}, false
			}
			return build(lat, lon)
		},
	},
	{
		name: "dd",
		re: regexp.MustCompile(
			`([NS])\s?(\d{1,2}` + frac + `)` + degMark +
				pairSep +
				`([EW])\s?(\d{1,3}` + frac + `)` + degMark),
		convert: func(g []string) (Point, bool) {
			lat, ok := dms(g[1], g[2], "0", "0")
			if !ok {
				return Point{}, false
			}
			lon, ok := dms(g[3], g[4], "0", "0")
			if !ok {
				return Point{}, false
			}
			return build(lat, lon)
		},
	},
	{
		// Signed decimal degrees need at least four decimals to keep prose
		// numbers like "1.5, 2.5" out.
		name: "signed",
		re:   regexp.MustCompile(`(-?\d{1,2}\.\d{4,})\s*[,;]\s*(-?\d{1,3}\.\d{4,})`),
		convert: func(g []string) (Point, bool) {
			lat, err := strconv.ParseFloat(g[1], 64)
			if err != nil {
				return Point{}, false
			}
			lon, err := strconv.ParseFloat(g[2], 64)
			if err != nil {
				return Point{}, false
			}
			return build(lat, lon)
		},
	},
}

// ParseAll returns every non-overlapping coordinate occurrence in text,
// ordered by position. When patterns overlap the earliest, then longest,
// occurrence wins.
func ParseAll(text string) []Match {
	var candidates []Match
	for _, pat := range patterns {
		for _, loc := range pat.re.FindAllStringSubmatchIndex(text, -1) {
			if !boundaryBefore(text, loc[0]) || !boundaryAfter(text, loc[1]) {
				continue
			}
			p, ok := pat.convert(submatches(text, loc))
			if !ok {
				continue
			}
			candidates = append(candidates, Match{Point: p, Start: loc[0], End: loc[1]})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	var out []Match
	lastEnd := 0
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue
		}
		out = append(out, c)
		lastEnd = c.End
	}
	return out
}

// Parse reads a text consisting of exactly one coordinate.
func Parse(text string) (Point, error) {
	trimmed := strings.TrimSpace(text)
	matches := ParseAll(trimmed)
	if len(matches) != 1 || matches[0].Start != 0 || matches[0].End != len(trimmed) {
		return Point{}, eris.Wrapf(ErrNoCoordinates, "geopoint: parse %q", text)
	}
	return matches[0].Point, nil
}

func submatches(text string, loc []int) []string {
	g := make([]string, len(loc)/2)
	for i := range g {
		if loc[2*i] >= 0 {
			g[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return g
}

// boundaryBefore rejects matches glued to a preceding word or number.
func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-'
}

// boundaryAfter rejects matches cut short by a following word or number,
// such as the numeric head of "45.6CD" in a formula.
func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// dms converts hemisphere, degrees, minutes and seconds into a signed angle.
func dms(hemi, deg, min, sec string) (float64, bool) {
	d, err := parseNumber(deg)
	if err != nil {
		return 0, false
	}
	m, err := parseNumber(min)
	if err != nil || m >= 60 {
		return 0, false
	}
	s, err := parseNumber(sec)
	if err != nil || s >= 60 {
		return 0, false
	}
	angle := d + m/60 + s/3600
	if hemi == "S" || hemi == "W" {
		angle = -angle
	}
	return angle, true
}

func build(lat, lon float64) (Point, bool) {
	p, err := New(lat, lon)
	if err != nil {
		return Point{}, false
	}
	return p, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

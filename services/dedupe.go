package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"bess-tracker/models"
)

var (
	keyWhitespaceRegexp = regexp.MustCompile(`\s+`)
	keyTrailingRegexp   = regexp.MustCompile(`[.,;:\-]+$`)
)

// Site names that are navigation boilerplate rather than project identity.
// Rows carrying these must not merge with each other on text alone, so their
// key incorporates the URL instead.
var genericSiteNames = map[string]struct{}{
	"view project":                     {},
	"our expertise":                    {},
	"why battery storage matters":      {},
	"our expertise in battery storage": {},
	"article":                          {},
	"news":                             {},
	"read more":                        {},
	"home":                             {},
	"about":                            {},
}

// dedupKey is the fingerprint deciding whether two records describe the same
// physical installation. url is empty except for generic/unusable site names.
type dedupKey struct {
	site     string
	capacity string
	region   string
	url      string
}

func normalizeKeyText(text string, maxLen int) string {
	s := keyWhitespaceRegexp.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
	s = keyTrailingRegexp.ReplaceAllString(s, "")
	return truncateRunes(s, maxLen)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func lastRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// recordKey computes the deduplication key: normalized site name, capacity
// rounded to one decimal (or "unknown"), normalized region. When the site
// name is empty, too short or generic, the normalized URL joins the key so
// unrelated boilerplate-titled rows stay distinct.
func recordKey(r *models.ProjectRecord) dedupKey {
	site := normalizeKeyText(r.SiteName, 200)

	capacity := "unknown"
	if r.CapacityMWNumeric != nil {
		capacity = strconv.FormatFloat(round1(*r.CapacityMWNumeric), 'f', 1, 64)
	}

	region := normalizeKeyText(r.Region, 100)

	_, generic := genericSiteNames[site]
	if site == "" || generic || utf8.RuneCountInString(site) < 3 {
		url := strings.ToLower(strings.TrimSpace(r.URL))
		if i := strings.IndexByte(url, '?'); i >= 0 {
			url = url[:i]
		}
		url = lastRunes(strings.TrimRight(url, "/"), 120)
		if site == "" {
			site = "_"
		}
		return dedupKey{site: site, capacity: capacity, region: region, url: url}
	}
	return dedupKey{site: site, capacity: capacity, region: region}
}

// Deduplicate merges records describing the same physical project into one.
// The first-seen record for a key is canonical; a non-News record arriving
// after a News canonical replaces its fields, and source names accumulate
// into a semicolon-joined list. Input order of first appearance is preserved
// and the input slice is never mutated.
func Deduplicate(records []*models.ProjectRecord) []*models.ProjectRecord {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[dedupKey]*models.ProjectRecord, len(records))
	out := make([]*models.ProjectRecord, 0, len(records))

	for _, r := range records {
		key := recordKey(r)
		existing, ok := seen[key]
		if !ok {
			cp := *r
			seen[key] = &cp
			out = append(out, &cp)
			continue
		}
		mergeRecords(existing, r)
	}
	return out
}

func mergeRecords(existing, incoming *models.ProjectRecord) {
	srcExisting := strings.TrimSpace(existing.Source)
	srcIncoming := strings.TrimSpace(incoming.Source)

	if strings.TrimSpace(incoming.Status) != StatusNews && strings.TrimSpace(existing.Status) == StatusNews {
		// News rows carry the least structured detail; promote the incoming
		// record field by field, keeping whatever the News row had where the
		// incoming value is absent.
		if !incoming.ScrapedAt.IsZero() {
			existing.ScrapedAt = incoming.ScrapedAt
		}
		if incoming.Country != "" {
			existing.Country = incoming.Country
		}
		if incoming.Region != "" {
			existing.Region = incoming.Region
		}
		if incoming.SiteName != "" {
			existing.SiteName = incoming.SiteName
		}
		if incoming.CapacityMW != "" {
			existing.CapacityMW = incoming.CapacityMW
		}
		if incoming.CapacityMWNumeric != nil {
			existing.CapacityMWNumeric = incoming.CapacityMWNumeric
		}
		if incoming.Status != "" {
			existing.Status = incoming.Status
		}
		if incoming.InvestmentOpportunity != "" {
			existing.InvestmentOpportunity = incoming.InvestmentOpportunity
		}
		if incoming.URL != "" {
			existing.URL = incoming.URL
		}
		existing.Source = joinSources(srcIncoming, srcExisting)
		return
	}

	if srcIncoming != "" && !strings.Contains(srcExisting, srcIncoming) {
		existing.Source = joinSources(srcExisting, srcIncoming)
	}
}

func joinSources(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + "; " + second
	}
}

package listing

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remotedeck/jobboard-api/internal/feed"
)

// publicationDateLayouts are tried in order; feeds are inconsistent about
// zone suffixes.
var publicationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts a raw feed listing into a Job, coercing the id to a
// string, defaulting missing optional fields, and substituting the
// placeholder for logos that are not absolute URLs.
func Normalize(l feed.Listing) Job {
	j := Job{
		ID:                        coerceID(l.ID),
		URL:                       l.URL,
		Title:                     l.Title,
		CompanyName:               l.CompanyName,
		CompanyLogo:               l.CompanyLogo,
		Category:                  l.Category,
		Tags:                      l.Tags,
		JobType:                   l.JobType,
		PublicationDate:           parsePublicationDate(l.PublicationDate),
		CandidateRequiredLocation: l.CandidateRequiredLocation,
		Salary:                    l.Salary,
		Description:               l.Description,
	}

	if !isAbsoluteURL(j.CompanyLogo) {
		j.CompanyLogo = PlaceholderLogo
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}
	if j.CandidateRequiredLocation == "" {
		j.CandidateRequiredLocation = DefaultLocation
	}
	if j.Salary == "" {
		j.Salary = DefaultSalary
	}
	if j.Description == "" {
		j.Description = DefaultDescription
	}

	return j
}

// coerceID turns whatever the feed sent as an id into a stable string.
// Records without a usable id get a generated one so they can still be
// upserted and referenced.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		if s := strings.TrimSpace(id); s != "" {
			return s
		}
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(id, 10)
	case int:
		return strconv.Itoa(id)
	}
	return uuid.NewString()
}

func parsePublicationDate(s string) time.Time {
	for _, layout := range publicationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

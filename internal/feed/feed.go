package feed

import "context"

// Listing is a single raw record from an external job feed. Every field is
// untrusted input: the ingestion normalizer defaults and validates each one
// before storage. IDs arrive as numbers from some feeds and strings from
// others, hence the any type.
type Listing struct {
	ID                        any      `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	CompanyLogo               string   `json:"company_logo"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
	Description               string   `json:"description"`
}

// Feed fetches the full listing set from an external source.
type Feed interface {
	Source() string
	Fetch(ctx context.Context) ([]Listing, error)
}

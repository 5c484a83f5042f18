package listing

import "time"

// Defaults applied during normalization. Records coming off the feed are
// untrusted; any missing optional field gets one of these.
const (
	PlaceholderLogo    = "https://dummyimage.com/50x50/cccccc/000000.png&text=No+Logo"
	DefaultLocation    = "Worldwide"
	DefaultSalary      = "Not specified"
	DefaultDescription = "No description available"
)

// Job is a normalized listing fetched from the external feed. It is created
// or overwritten by refresh cycles and never mutated by user actions.
type Job struct {
	ID                        string    `json:"id"`
	URL                       string    `json:"url"`
	Title                     string    `json:"title"`
	CompanyName               string    `json:"company_name"`
	CompanyLogo               string    `json:"company_logo"`
	Category                  string    `json:"category"`
	Tags                      []string  `json:"tags"`
	JobType                   string    `json:"job_type"`
	PublicationDate           time.Time `json:"publication_date"`
	CandidateRequiredLocation string    `json:"candidate_required_location"`
	Salary                    string    `json:"salary"`
	Description               string    `json:"description"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

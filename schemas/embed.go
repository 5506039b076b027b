// Package schemas holds the JSON Schemas for profile input files.
package schemas

import "embed"

// Schema file names.
const (
	CompanyProfile = "company_profile.schema.json"
	FundingRounds  = "funding_rounds.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of a schema file by name.
func Load(name string) ([]byte, error) {
	return files.ReadFile(name)
}

package profile

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSON  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedBlock = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extraction is the JSON shape the model is asked to produce.
type extraction struct {
	Skills             []string `json:"skills"`
	ContributionStyles []string `json:"contribution_styles"`
	ExperienceLevel    string   `json:"experience_level"`
}

// extractJSON pulls the JSON payload out of a model response: a ```json
// fence wins, then any fence whose body parses as JSON, then the raw
// response.
func extractJSON(response string) string {
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		body := strings.TrimSpace(m[1])
		if json.Valid([]byte(body)) {
			return body
		}
	}
	return strings.TrimSpace(response)
}

// parseExtraction decodes and validates a model response. A response
// without a skills list is an error; unknown styles and levels fall back
// to defaults later, in models.NewUserProfile.
func parseExtraction(response string) (extraction, error) {
	payload := extractJSON(response)

	var ext extraction
	if err := json.Unmarshal([]byte(payload), &ext); err != nil {
		return extraction{}, fmt.Errorf("parse model response: %w", err)
	}
	if ext.Skills == nil {
		return extraction{}, fmt.Errorf("model response missing skills list")
	}
	return ext, nil
}

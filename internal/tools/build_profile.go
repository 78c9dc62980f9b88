package tools

import (
	"context"
	"errors"

	"github.com/jzhao-dev/reposcout/internal/llm"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BuildProfileInput defines the input schema for the build_profile tool.
type BuildProfileInput struct {
	Text string `json:"text" jsonschema:"required,Free-text self-description to extract skills and preferences from"`
	Save bool   `json:"save,omitempty" jsonschema:"Persist the extracted profile for later recommend calls, default false"`
}

// buildProfileResponse is the tool output shape.
type buildProfileResponse struct {
	Profile models.UserProfile `json:"profile"`
	Saved   bool               `json:"saved"`
}

// NewBuildProfileHandler creates the build_profile tool handler.
// Extracts a structured profile from free text via the LLM.
func NewBuildProfileHandler(deps *Dependencies) mcp.ToolHandlerFor[BuildProfileInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input BuildProfileInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Text == "" {
			return ErrorResult("Text cannot be empty", "Describe your skills and how you like to contribute"), nil, nil
		}
		if deps.Builder == nil {
			return ErrorResult("Profile extraction is not configured", "Set an LLM provider in the server configuration"), nil, nil
		}

		profile, err := deps.Builder.BuildFromText(ctx, input.Text)
		if err != nil {
			deps.Logger.Error("profile extraction failed", "error", err)
			if errors.Is(err, llm.ErrFatalAPI) {
				// Retrying will not help; the provider rejected the account.
				return ErrorResult("LLM provider rejected the request", "Check API credentials, billing, and quota"), nil, nil
			}
			return ErrorResult("Failed to extract profile", "Check LLM provider availability and retry"), nil, nil
		}

		resp := buildProfileResponse{Profile: profile}
		if input.Save {
			if deps.Store == nil {
				return ErrorResult("Profile storage is not configured", "Connect a database to save profiles"), nil, nil
			}
			id, err := deps.Store.SaveProfile(ctx, profile, input.Text)
			if err != nil {
				deps.Logger.Error("profile save failed", "error", err)
				return ErrorResult("Failed to save profile", "Database may be unavailable"), nil, nil
			}
			resp.Profile.ID = id
			resp.Saved = true
		}

		deps.Logger.Info("build_profile completed",
			"skills", len(profile.Skills),
			"saved", resp.Saved)

		return JSONResult(resp), nil, nil
	}
}

package types

import "fmt"

// DatasetType selects the Freeplay dataset family a test case belongs to.
// The v2 API exposes prompt-level and agent-level datasets under different
// path segments, which is the only place the distinction matters here.
type DatasetType string

const (
	// DatasetPrompt addresses prompt-level datasets ("prompt-datasets" API path).
	DatasetPrompt DatasetType = "prompt-datasets"
	// DatasetAgent addresses agent-level datasets ("agent-datasets" API path).
	DatasetAgent DatasetType = "agent-datasets"
)

// ParseDatasetType converts the user-facing --type flag value ("prompt" or
// "agent") into a DatasetType.
func ParseDatasetType(s string) (DatasetType, error) {
	switch s {
	case "prompt":
		return DatasetPrompt, nil
	case "agent":
		return DatasetAgent, nil
	default:
		return "", fmt.Errorf("invalid dataset type %q (must be prompt or agent)", s)
	}
}

// DatasetRef identifies a single dataset within a project.
type DatasetRef struct {
	Type DatasetType
	ID   string
}

// TestCase is a single dataset entry as accepted by the bulk create endpoint.
//
// Inputs carries the named template variables, Output the expected model
// response, and Metadata any free-form labels (category, priority, ...).
type TestCase struct {
	Inputs   map[string]any `json:"inputs" validate:"required,min=1"`
	Output   string         `json:"output"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Project is a Freeplay project as returned by the projects listing endpoint.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PromptMessage is one role-tagged message of a prompt template's content.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DeployedPrompt describes a prompt template version deployed to one
// environment, as returned by the environments listing endpoint.
type DeployedPrompt struct {
	PromptTemplateName      string          `json:"prompt_template_name"`
	PromptTemplateVersionID string          `json:"prompt_template_version_id"`
	VersionName             string          `json:"version_name,omitempty"`
	Provider                string          `json:"provider"`
	Model                   string          `json:"model"`
	Content                 []PromptMessage `json:"content"`
}

// PromptTemplate is a prompt template entry from the project-wide template
// listing (all versions, deployed or not).
type PromptTemplate struct {
	ID   string `json:"prompt_template_id"`
	Name string `json:"prompt_template_name"`
}

package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cznethub/bblocktools/converter"
	"github.com/cznethub/bblocktools/schema"
)

type convertInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a resolved schema document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline resolved schema content (JSON or YAML). Exactly one of file or content must be set."`
	Output  string `json:"output,omitempty"  jsonschema:"File path to write the forms document. If omitted the document is returned inline."`
}

type convertIssue struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Keyword  string `json:"keyword"`
	Message  string `json:"message"`
}

type convertOutput struct {
	Dialect    string         `json:"dialect"`
	Success    bool           `json:"success"`
	IssueCount int            `json:"issue_count"`
	Issues     []convertIssue `json:"issues,omitempty"`
	WrittenTo  string         `json:"written_to,omitempty"`
	Document   string         `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	if (input.File == "") == (input.Content == "") {
		return errResult(fmt.Errorf("exactly one of file or content is required")), convertOutput{}, nil
	}

	var (
		doc *schema.Value
		err error
	)
	if input.File != "" {
		doc, err = schema.ParseFile(input.File)
	} else {
		doc, err = schema.ParseBytes([]byte(input.Content))
	}
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	result := converter.Convert(doc)

	output := convertOutput{
		Dialect:    converter.FormsDialect,
		Success:    result.Success,
		IssueCount: len(result.Issues),
	}
	output.Issues = makeSlice[convertIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, convertIssue{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Keyword:  issue.Keyword,
			Message:  issue.Message,
		})
	}
	if result.HasCriticalIssues() {
		return nil, output, nil
	}

	data, err := result.Document.MarshalJSONIndent("  ")
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, 0o644); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}

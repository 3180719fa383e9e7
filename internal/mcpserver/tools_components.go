package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/inspect"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

type listComponentsInput struct {
	Spec    specInput `json:"spec"               jsonschema:"The Stripe OpenAPI document"`
	Package string    `json:"package,omitempty"  jsonschema:"Only components rendered in this package (e.g. core, billing, shared)"`
	Pattern string    `json:"pattern,omitempty"  jsonschema:"Glob over component paths, e.g. issuing.* or *customer"`
	GroupBy string    `json:"group_by,omitempty" jsonschema:"Return counts grouped by package or kind instead of items"`
	Offset  int       `json:"offset,omitempty"   jsonschema:"Number of matches to skip"`
	Limit   int       `json:"limit,omitempty"    jsonschema:"Maximum matches to return"`
}

type listComponentsOutput struct {
	Total      int             `json:"total"`
	Matched    int             `json:"matched"`
	Returned   int             `json:"returned"`
	Components []inspect.Entry `json:"components,omitempty"`
	Groups     []groupCount    `json:"groups,omitempty"`
}

func handleListComponents(_ context.Context, _ *mcp.CallToolRequest, input listComponentsInput) (*mcp.CallToolResult, listComponentsOutput, error) {
	if !validGroupBy(input.GroupBy, "package", "kind") {
		return errResult(fmt.Errorf("invalid group_by value %q; valid values: package, kind", input.GroupBy)), listComponentsOutput{}, nil
	}

	a, err := analyze(input.Spec)
	if err != nil {
		return errResult(err), listComponentsOutput{}, nil
	}
	matched, err := a.List(input.Package, input.Pattern)
	if err != nil {
		return errResult(err), listComponentsOutput{}, nil
	}

	output := listComponentsOutput{Total: a.Components.Len(), Matched: len(matched)}
	if input.GroupBy != "" {
		key := func(e inspect.Entry) string { return e.Package }
		if strings.EqualFold(input.GroupBy, "kind") {
			key = func(e inspect.Entry) string { return e.Kind }
		}
		output.Groups = groupAndSort(matched, key)
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	output.Components = paginate(matched, input.Offset, input.Limit)
	output.Returned = len(output.Components)
	return nil, output, nil
}

type inspectComponentInput struct {
	Spec      specInput `json:"spec"      jsonschema:"The Stripe OpenAPI document"`
	Component string    `json:"component" jsonschema:"Component path, e.g. customer or issuing.card"`
}

func handleInspectComponent(_ context.Context, _ *mcp.CallToolRequest, input inspectComponentInput) (*mcp.CallToolResult, inspect.Component, error) {
	if input.Component == "" {
		return errResult(fmt.Errorf("component is required")), inspect.Component{}, nil
	}

	a, err := analyze(input.Spec)
	if err != nil {
		return errResult(err), inspect.Component{}, nil
	}
	c, ok := a.Describe(ir.ComponentPath(input.Component))
	if !ok {
		return errResult(fmt.Errorf("component %q not found or skipped during assembly", input.Component)), inspect.Component{}, nil
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: inspect.Markdown(c)}},
	}
	return result, *c, nil
}

// analyze resolves the document and runs the pipeline up to rendering.
func analyze(spec specInput) (*inspect.Analysis, error) {
	runMu.Lock()
	defer runMu.Unlock()

	doc, err := spec.resolve()
	if err != nil {
		return nil, err
	}
	return inspect.Analyze(doc, inspect.Options{OpenEnumThreshold: infer.DefaultOpenEnumThreshold})
}

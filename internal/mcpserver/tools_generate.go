package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/arlyon/async-stripe-sub040/generator"
	"github.com/arlyon/async-stripe-sub040/internal/config"
	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
)

type generateInput struct {
	Spec              specInput `json:"spec"                          jsonschema:"The Stripe OpenAPI document to generate code from"`
	OutputDir         string    `json:"output_dir"                    jsonschema:"Directory to write generated packages to"`
	Module            string    `json:"module,omitempty"              jsonschema:"Module path of the generated tree (default: STRIPEGEN_MCP_MODULE)"`
	OverridesFile     string    `json:"overrides_file,omitempty"      jsonschema:"YAML override table: package pins, variant renames, id prefixes, open/closed enums"`
	Docs              string    `json:"docs,omitempty"                jsonschema:"Documentation URL source: YAML/JSON map file or sqlite database"`
	Strict            bool      `json:"strict,omitempty"              jsonschema:"Fail when any component or operation is skipped"`
	OpenEnumThreshold int       `json:"open_enum_threshold,omitempty" jsonschema:"Unannotated enums with more variants than this are open (default 12)"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success        bool                `json:"success"`
	OutputDir      string              `json:"output_dir"`
	Module         string              `json:"module"`
	APIVersion     string              `json:"api_version,omitempty"`
	Packages       []string            `json:"packages"`
	FileCount      int                 `json:"file_count"`
	Files          []generatedFileInfo `json:"files"`
	ComponentCount int                 `json:"component_count"`
	RequestCount   int                 `json:"request_count"`
	HoistedCount   int                 `json:"hoisted_count"`
	WarningCount   int                 `json:"warning_count"`
	CriticalCount  int                 `json:"critical_count"`
	Warnings       []string            `json:"warnings,omitempty"`
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}

	runMu.Lock()
	defer runMu.Unlock()

	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	fs := afero.NewOsFs()
	module := input.Module
	if module == "" {
		module = cfg.ModulePath
	}
	threshold := input.OpenEnumThreshold
	if threshold == 0 {
		threshold = infer.DefaultOpenEnumThreshold
	}
	opts := []generator.Option{
		generator.WithDocument(doc),
		generator.WithModulePath(module),
		generator.WithOutputDir(input.OutputDir),
		generator.WithStrictMode(input.Strict),
		generator.WithOpenEnumThreshold(threshold),
		generator.WithWorkers(cfg.Workers),
		generator.WithIncludeInfo(false),
		generator.WithFs(fs),
	}

	if input.OverridesFile != "" {
		table, err := config.LoadOverrides(fs, input.OverridesFile)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		opts = append(opts, generator.WithOverrides(table))
	}
	if input.Docs != "" {
		lookup, closeDocs, err := docurl.Open(fs, input.Docs)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		defer func() { _ = closeDocs() }()
		opts = append(opts, generator.WithDocLookup(lookup))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:        result.Success,
		OutputDir:      input.OutputDir,
		Module:         result.ModulePath,
		APIVersion:     result.APIVersion,
		Packages:       result.Packages,
		FileCount:      len(result.Files),
		ComponentCount: result.ComponentCount,
		RequestCount:   result.RequestCount,
		HoistedCount:   result.HoistedCount,
		WarningCount:   result.WarningCount,
		CriticalCount:  result.CriticalCount,
	}

	output.Files = make([]generatedFileInfo, 0, len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{
			Name: f.Name,
			Size: len(f.Content),
		})
	}
	for _, issue := range result.Issues {
		if issue.Severity.AtLeast(severity.SeverityWarning) {
			output.Warnings = append(output.Warnings, issue.String())
		}
	}

	return nil, output, nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/output"
	"github.com/Stefan/ppm-saas-sub008/internal/platform/htmldom"
	"github.com/Stefan/ppm-saas-sub008/internal/report"
	"github.com/Stefan/ppm-saas-sub008/internal/testid"
	"github.com/Stefan/ppm-saas-sub008/internal/verify"
)

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) handleGenerateTestID(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	component := stringParam(params, "component", "")
	if strings.TrimSpace(component) == "" {
		return mcp.NewToolResultError("component is required"), nil
	}
	id := testid.Generate(component, stringParam(params, "element", ""), stringParam(params, "variant", ""))
	return mcp.NewToolResultText(id), nil
}

func (s *Server) handleValidateManifest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "manifest", "")
	path := stringParam(params, "path", "")

	var (
		reg *manifest.Registry
		err error
	)
	switch {
	case text != "":
		reg, err = manifest.LoadBytes("manifest", []byte(text))
	case path != "":
		reg, err = manifest.Load(path)
	default:
		reg = s.registry
	}

	var loadErr *manifest.LoadError
	if errors.As(err, &loadErr) {
		return mcp.NewToolResultError(toText(loadErr.Issues)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(reg.ValidateAll())), nil
}

// document returns the HTML document named by the html or path argument.
func (s *Server) document(params map[string]interface{}) (*htmldom.Document, error) {
	if text := stringParam(params, "html", ""); text != "" {
		return htmldom.ParseString(text, s.cfg.TestIDAttribute)
	}
	if path := stringParam(params, "path", ""); path != "" {
		return s.cache.Load(path, s.cfg.TestIDAttribute)
	}
	return nil, errors.New("html or path is required")
}

func (s *Server) verifier(doc *htmldom.Document) *verify.Verifier {
	return verify.New(doc, verify.Config{
		Concurrency:     s.cfg.Concurrency,
		TestIDAttribute: s.cfg.TestIDAttribute,
	})
}

func (s *Server) handleVerifyHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pageName := stringParam(params, "page", "")
	componentName := stringParam(params, "component", "")
	if (pageName == "") == (componentName == "") {
		return mcp.NewToolResultError("exactly one of page or component is required"), nil
	}

	doc, err := s.document(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := s.verifier(doc)

	var result model.VerificationResult
	if pageName != "" {
		page, err := s.registry.Page(pageName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if condition := stringParam(params, "condition", ""); condition != "" {
			result = v.VerifyConditionalSections(ctx, page, condition)
		} else {
			result = v.VerifyPageStructure(ctx, page)
		}
	} else {
		component, err := s.registry.Component(componentName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result = v.VerifyComponentStructure(ctx, component, stringParam(params, "state", ""))
	}

	text := toText(result)
	if boolParam(params, "report", false) {
		text = report.FormatVerificationError(result)
	}
	if !result.Passed {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleCheckInteractive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	var ids []string
	for _, id := range strings.Split(stringParam(params, "ids", ""), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids is required"), nil
	}

	doc, err := s.document(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := s.verifier(doc).VerifyInteractiveAccessibility(ctx, ids)
	if !result.Passed {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleListStructures(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(output.ListStructures(s.registry))), nil
}

// Parameter extraction helpers for tool arguments

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

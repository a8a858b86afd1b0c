package server

import (
	"testing"
)

var allToolNames = []string{
	"image_load",
	"image_dimensions",
	"image_quantize",
	"image_pixelate",
	"image_resample",
	"image_blocks",
	"image_process",
}

func toolsByName() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) != len(allToolNames) {
		t.Errorf("got %d tools, want %d", len(tools), len(allToolNames))
	}

	toolMap := toolsByName()
	for _, name := range allToolNames {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema missing 'properties' map")
			}

			// Every required parameter must be described.
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no property schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string][]string{
		"image_load":       {"path"},
		"image_dimensions": {"path"},
		"image_quantize":   {"path"},
		"image_pixelate":   {"path", "block_area"},
		"image_resample":   {"path", "width", "height"},
		"image_blocks":     {"path", "block_area"},
		"image_process":    {"path"},
	}

	toolMap := toolsByName()
	for name, params := range want {
		t.Run(name, func(t *testing.T) {
			tool, ok := toolMap[name]
			if !ok {
				t.Fatalf("tool %s not found", name)
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			have := make(map[string]bool)
			for _, r := range required {
				have[r] = true
			}
			for _, p := range params {
				if !have[p] {
					t.Errorf("%s should require '%s'", name, p)
				}
			}
			if len(required) != len(params) {
				t.Errorf("%s requires %v, want %v", name, required, params)
			}
		})
	}
}

func TestToolDefinitions_MetricEnum(t *testing.T) {
	tool := toolsByName()["image_quantize"]

	props, ok := tool.InputSchema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("properties should be a map")
	}
	metric, ok := props["metric"].(map[string]interface{})
	if !ok {
		t.Fatal("metric property should exist and be a map")
	}
	enum, ok := metric["enum"].([]string)
	if !ok {
		t.Fatal("metric should have enum")
	}

	enumMap := make(map[string]bool)
	for _, e := range enum {
		enumMap[e] = true
	}
	for _, m := range []string{"euclidean", "manhattan"} {
		if !enumMap[m] {
			t.Errorf("Expected metric '%s' not in enum", m)
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"image_quantize": {"metric": "manhattan"},
		"image_pixelate": {"reduce": false, "strict": false},
		"image_resample": {"fit": false},
		"image_blocks":   {"scale": 1, "strict": false},
	}

	toolMap := toolsByName()
	for toolName, expectedDefaults := range toolDefaults {
		tool, ok := toolMap[toolName]
		if !ok {
			t.Errorf("Tool %s not found", toolName)
			continue
		}

		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expectedDefault := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}

			actualDefault, ok := param["default"]
			if !ok {
				t.Errorf("%s.%s: missing default value", toolName, paramName)
				continue
			}
			if actualDefault != expectedDefault {
				t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expectedDefault)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}

package toolmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/Cyclone1070/termcoder/internal/provider"
	"github.com/Cyclone1070/termcoder/internal/tool"
	"github.com/Cyclone1070/termcoder/internal/workflow"
)

// ToolManager owns the tool registry and runs one tool call end to end:
// decode, validate, authorize, execute. Every failure along that path is
// reported back to the model as a tool result; only context cancellation
// aborts the loop.
type ToolManager struct {
	registry map[string]toolImpl
	gate     gate
}

func NewToolManager(gate gate, tools ...toolImpl) *ToolManager {
	tm := &ToolManager{
		registry: make(map[string]toolImpl),
		gate:     gate,
	}
	for _, t := range tools {
		tm.Register(t)
	}
	return tm
}

func (m *ToolManager) Register(t toolImpl) {
	m.registry[t.Name()] = t
}

// Declarations returns all tool schemas, sorted by name.
func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Definitions returns the declarations in provider format.
func (m *ToolManager) Definitions() []provider.ToolDefinition {
	decls := m.Declarations()
	defs := make([]provider.ToolDefinition, 0, len(decls))
	for _, d := range decls {
		defs = append(defs, toDefinition(d))
	}
	return defs
}

func toDefinition(d tool.Declaration) provider.ToolDefinition {
	def := provider.ToolDefinition{
		Name:        d.Name,
		Description: d.Description,
	}
	if d.Parameters == nil {
		return def
	}
	params := &provider.ParameterSchema{Required: d.Parameters.Required}
	if d.Parameters.Properties != nil {
		params.Properties = make(map[string]*provider.PropertySchema, len(d.Parameters.Properties))
		for name, prop := range d.Parameters.Properties {
			params.Properties[name] = toProperty(prop)
		}
	}
	def.Parameters = params
	return def
}

func toProperty(s *tool.Schema) *provider.PropertySchema {
	p := &provider.PropertySchema{
		Type:        string(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
	}
	if s.Items != nil {
		p.Items = toProperty(s.Items)
	}
	return p
}

// Execute runs one tool call and returns the tool-role message carrying
// its result. It emits ToolStart and ToolEnd events around the call.
func (m *ToolManager) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
	t, ok := m.registry[tc.Name]
	if !ok {
		names := make([]string, 0, len(m.registry))
		for name := range m.registry {
			names = append(names, name)
		}
		sort.Strings(names)
		err := tool.NewError(tool.KindUnknownTool, "tool %q does not exist; available tools: %v", tc.Name, names)
		emitInvalid(events, tc.Name)
		return m.resultMessage(tc, tool.ErrResult(tc.ID, err)), nil
	}

	req := t.Input()
	if err := decodeArgs(tc.Args, req); err != nil {
		schemaJSON, _ := json.MarshalIndent(t.Declaration(), "", "  ")
		werr := tool.WrapError(tool.KindInvalidArguments, err, "invalid arguments for %q; expected schema:\n%s", tc.Name, schemaJSON)
		emitInvalid(events, tc.Name)
		return m.resultMessage(tc, tool.ErrResult(tc.ID, werr)), nil
	}
	if v, ok := req.(validator); ok {
		if err := v.Validate(); err != nil {
			werr := tool.WrapError(tool.KindInvalidArguments, err, "invalid arguments for %q", tc.Name)
			emitInvalid(events, tc.Name)
			return m.resultMessage(tc, tool.ErrResult(tc.ID, werr)), nil
		}
	}

	display := ""
	if s, ok := req.(fmt.Stringer); ok {
		display = s.String()
	}
	if events != nil {
		events <- workflow.ToolStartEvent{ToolName: tc.Name, RequestDisplay: display}
	}

	// The gate runs after decoding so the prompt can show what the tool
	// would actually do.
	preview := display
	if p, ok := req.(previewer); ok {
		preview = p.Preview()
	}
	prompt := fmt.Sprintf("Allow %s (%s)?", tc.Name, t.Category())
	if err := m.gate.Authorize(ctx, tc.Name, t.Category(), prompt, preview); err != nil {
		if ctx.Err() != nil {
			return provider.Message{}, ctx.Err()
		}
		res := tool.ErrResult(tc.ID, err)
		emitEnd(events, tc.Name, res)
		return m.resultMessage(tc, res), nil
	}

	output, err := t.Execute(ctx, req)
	if ctx.Err() != nil {
		emitEnd(events, tc.Name, tool.Result{CallID: tc.ID, Detail: "cancelled"})
		return provider.Message{}, ctx.Err()
	}

	var res tool.Result
	if err != nil {
		res = tool.ErrResult(tc.ID, err)
		res.Output = output // partial output, e.g. from a timed-out command
	} else {
		res = tool.OkResult(tc.ID, output)
	}
	emitEnd(events, tc.Name, res)
	return m.resultMessage(tc, res), nil
}

func (m *ToolManager) resultMessage(tc provider.ToolCall, res tool.Result) provider.Message {
	return provider.Message{
		Role:       provider.RoleTool,
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
		Content:    res.LLMContent(),
	}
}

func decodeArgs(args map[string]any, req any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           req,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

func emitInvalid(events chan<- workflow.Event, toolName string) {
	if events == nil {
		return
	}
	events <- workflow.ToolStartEvent{ToolName: toolName}
	events <- workflow.ToolEndEvent{ToolName: toolName, Success: false, Display: "Invalid tool request"}
}

func emitEnd(events chan<- workflow.Event, toolName string, res tool.Result) {
	if events == nil {
		return
	}
	display := "Done"
	if !res.Success {
		display = res.Detail
		if display == "" {
			display = string(res.ErrorKind)
		}
	}
	events <- workflow.ToolEndEvent{ToolName: toolName, Success: res.Success, Display: display}
}

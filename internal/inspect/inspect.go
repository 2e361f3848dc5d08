// Package inspect implements the `openabl inspect` debugging aid: a JSON
// dump of the analyzed Script and, where applicable, the derived
// FlameModel, plus gjson/sjson-based
// query/patch support over that dump. It never feeds back into
// compilation — the dump is read-only by construction.
package inspect

import (
	"encoding/json"
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/backend/flamemodel"
	"github.com/openabl/openabl-go/internal/types"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// valueDump is the JSON-friendly rendering of a types.Value; only the
// field matching Kind is meaningful, mirroring the Value itself.
type valueDump struct {
	Kind  string    `json:"kind"`
	Bool  bool      `json:"bool,omitempty"`
	Int   int64     `json:"int,omitempty"`
	Float float64   `json:"float,omitempty"`
	Str   string    `json:"str,omitempty"`
	Vec   []float64 `json:"vec,omitempty"`
}

type agentMemberDump struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsPosition bool   `json:"isPosition,omitempty"`
}

type agentDump struct {
	Name          string            `json:"name"`
	Members       []agentMemberDump `json:"members"`
	PositionIndex int               `json:"positionIndex"`
}

type paramDump struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	OutName string `json:"outName,omitempty"`
}

type funcDump struct {
	Name          string      `json:"name"`
	IsStep        bool        `json:"isStep,omitempty"`
	IsInteract    bool        `json:"isInteract,omitempty"`
	Params        []paramDump `json:"params"`
	ReturnType    string      `json:"returnType,omitempty"`
	UsesRng       bool        `json:"usesRng,omitempty"`
	CallsNear     bool        `json:"callsNear,omitempty"`
	ReadsMembers  []string    `json:"readsMembers,omitempty"`
	WritesMembers []string    `json:"writesMembers,omitempty"`
}

type constDump struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Line int    `json:"line"`
}

type environmentDump struct {
	Min         valueDump `json:"min"`
	Size        valueDump `json:"size"`
	Granularity valueDump `json:"granularity"`
}

type simulateDump struct {
	Steps     string   `json:"steps"`
	StepFuncs []string `json:"stepFuncs"`
}

// ScriptDump is the top-level `openabl inspect` document for a single
// analyzed script.
type ScriptDump struct {
	Agents      []agentDump      `json:"agents"`
	Funcs       []funcDump       `json:"funcs"`
	Consts      []constDump      `json:"consts"`
	Environment *environmentDump `json:"environment,omitempty"`
	Simulate    *simulateDump    `json:"simulate,omitempty"`
	FlameModel  *flameModelDump  `json:"flameModel,omitempty"`
}

type flameModelDump struct {
	Messages []flameMessageDump `json:"messages"`
	Funcs    []flameFuncDump    `json:"funcs"`
}

type flameMessageDump struct {
	Name    string   `json:"name"`
	Agent   string   `json:"agent"`
	Members []string `json:"members"`
}

type flameFuncDump struct {
	Name       string `json:"name"`
	Agent      string `json:"agent"`
	InMsgName  string `json:"inMsgName,omitempty"`
	OutMsgName string `json:"outMsgName,omitempty"`
	AddedAgent string `json:"addedAgent,omitempty"`
}

// valueOf mirrors a types.Value into its JSON form.
func valueOf(v types.Value) valueDump {
	d := valueDump{Kind: v.Typ.Kind.String(), Bool: v.Bool, Int: v.Int, Float: v.Float, Str: v.Str}
	if v.Typ.Kind == types.Vec2 {
		d.Vec = v.Vec[:2]
	} else if v.Typ.Kind == types.Vec3 {
		d.Vec = v.Vec[:3]
	}
	return d
}

// BuildScriptDump renders script (already analyzed) into a ScriptDump.
// When includeFlameModel is true and the script has at least one agent, it
// also derives the FlameModel for the FLAME/FLAME-GPU backends' benefit.
func BuildScriptDump(script *ast.Script, includeFlameModel bool) (*ScriptDump, error) {
	dump := &ScriptDump{}

	for _, agent := range script.Agents {
		ad := agentDump{Name: agent.Name, PositionIndex: agent.PositionIndex}
		for _, m := range agent.Members {
			ad.Members = append(ad.Members, agentMemberDump{
				Name:       m.Name,
				Type:       typeExprString(m.Type),
				IsPosition: m.IsPosition,
			})
		}
		dump.Agents = append(dump.Agents, ad)
	}

	for _, fn := range script.Funcs {
		fd := funcDump{
			Name:       fn.Name,
			IsStep:     fn.IsStep,
			IsInteract: fn.IsInteract,
			ReturnType: typeExprString(fn.ReturnType),
			UsesRng:    fn.UsesRng,
			CallsNear:  fn.CallsNear,
		}
		for _, p := range fn.Params {
			fd.Params = append(fd.Params, paramDump{
				Name:    p.Name,
				Type:    typeExprString(p.Type),
				OutName: p.OutName,
			})
		}
		for name := range fn.ReadsMembers {
			fd.ReadsMembers = append(fd.ReadsMembers, name)
		}
		for name := range fn.WritesMembers {
			fd.WritesMembers = append(fd.WritesMembers, name)
		}
		dump.Funcs = append(dump.Funcs, fd)
	}

	for _, c := range script.Consts {
		dump.Consts = append(dump.Consts, constDump{
			Name: c.Name,
			Type: typeExprString(c.Type),
			Line: c.Loc.Begin.Line,
		})
	}

	if script.Env != nil {
		dump.Environment = &environmentDump{
			Min:         valueOf(script.EnvMin),
			Size:        valueOf(script.EnvSize),
			Granularity: valueOf(script.EnvGranularity),
		}
	}

	if script.Simulate != nil && script.Simulate.Stmt != nil {
		dump.Simulate = &simulateDump{
			StepFuncs: script.Simulate.Stmt.StepFuncs,
		}
	}

	if includeFlameModel && len(script.Agents) > 0 {
		model, err := flamemodel.GenerateFromScript(script)
		if err != nil {
			return nil, fmt.Errorf("inspect: deriving flame model: %w", err)
		}
		dump.FlameModel = dumpFlameModel(model)
	}

	return dump, nil
}

func dumpFlameModel(m *flamemodel.Model) *flameModelDump {
	fd := &flameModelDump{}
	for _, msg := range m.Messages {
		var agentName string
		if msg.Agent != nil {
			agentName = msg.Agent.Name
		}
		md := flameMessageDump{Name: msg.Name, Agent: agentName}
		for _, mem := range msg.Members {
			md.Members = append(md.Members, mem.Name)
		}
		fd.Messages = append(fd.Messages, md)
	}
	for _, fn := range m.Funcs {
		var agentName, addedName string
		if fn.Agent != nil {
			agentName = fn.Agent.Name
		}
		if fn.AddedAgent != nil {
			addedName = fn.AddedAgent.Name
		}
		fd.Funcs = append(fd.Funcs, flameFuncDump{
			Name:       fn.Name,
			Agent:      agentName,
			InMsgName:  fn.InMsgName,
			OutMsgName: fn.OutMsgName,
			AddedAgent: addedName,
		})
	}
	return fd
}

// ToJSON renders dump as indented JSON.
func ToJSON(dump *ScriptDump) ([]byte, error) {
	return json.MarshalIndent(dump, "", "  ")
}

// Query evaluates a gjson path against a JSON document, returning the raw
// matched text.
func Query(doc []byte, path string) (string, error) {
	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return "", fmt.Errorf("inspect: query %q matched nothing", path)
	}
	return result.Raw, nil
}

// Patch applies a single `PATH=VALUE` edit to a JSON document via sjson,
// returning the patched document. This never feeds back into compilation;
// it exists purely so a developer can diff a hypothetical change against
// the real dump.
func Patch(doc []byte, path, value string) ([]byte, error) {
	patched, err := sjson.SetBytes(doc, path, value)
	if err != nil {
		return nil, fmt.Errorf("inspect: patching %q: %w", path, err)
	}
	return patched, nil
}

func typeExprString(t ast.TypeExpr) string {
	if t.IsArray {
		if t.Elem != nil {
			return typeExprString(*t.Elem) + "[]"
		}
		return "[]"
	}
	return t.Name
}

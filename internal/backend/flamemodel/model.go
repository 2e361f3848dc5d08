// Package flamemodel derives the shared FLAME/FLAME-GPU intermediate
// model — messages, per-function input/output wiring, and execution
// layers — from an analyzed Script.
package flamemodel

import (
	"fmt"
	"sort"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/types"
)

// Member is one (name, FLAME primitive type) pair after unpacking: a VEC2
// member becomes two float members name_x/name_y, a VEC3 three, since
// FLAME's XML model has no vector member type.
type Member struct {
	Name string
	Type string // FLAME primitive type name: "int", "float", "double"
}

// UnpackMembers expands agent/message members into their FLAME primitive
// representation. useFloat selects "float" vs. "double" for FLOAT32
// members, mirroring the backend's use_float config key.
func UnpackMembers(members []ast.AgentMember, useFloat bool) []Member {
	floatName := "double"
	if useFloat {
		floatName = "float"
	}
	var out []Member
	for _, m := range members {
		switch m.Type.Resolved.Kind {
		case types.Vec2:
			out = append(out, Member{m.Name + "_x", floatName}, Member{m.Name + "_y", floatName})
		case types.Vec3:
			out = append(out, Member{m.Name + "_x", floatName}, Member{m.Name + "_y", floatName}, Member{m.Name + "_z", floatName})
		case types.Float32:
			out = append(out, Member{m.Name, floatName})
		case types.Int32:
			out = append(out, Member{m.Name, "int"})
		case types.Bool:
			out = append(out, Member{m.Name, "int"})
		default:
			out = append(out, Member{m.Name, "int"})
		}
	}
	return out
}

// Message is an implicit FLAME message type synthesized for each step
// function's `near(a, r)` read pattern: the fields a neighbor must publish
// for other agents to query it. One message per (agent, ReadsMembers) step
// function that calls `near`.
type Message struct {
	Name    string
	Agent   *ast.AgentDeclaration
	Members []ast.AgentMember
}

// Func is one FLAME transition function. A step function that both reads
// neighbor state (`near`) and writes its own agent state is represented as
// two Funcs (see GenerateFromScript's publish/consume split), each still
// pointing at the one underlying step FunctionDeclaration.
type Func struct {
	Name       string
	Agent      *ast.AgentDeclaration
	Decl       *ast.FunctionDeclaration
	InMsgName  string // "" if the function does not consume a message
	OutMsgName string // "" if the function does not publish a message
	AddedAgent *ast.AgentDeclaration
	Layer      int // execution layer; see Model.Layers
}

// Model is the derived intermediate form shared by the FLAME and FLAME-GPU
// backends.
type Model struct {
	Messages []Message
	Funcs    []Func
}

// GenerateFromScript walks every step function bound in the script's
// simulate block and derives the message/function wiring.
//
// A step function that both calls `near` and writes its own agent's members
// needs every neighbor to see last step's state while it writes this
// step's, which one FLAME transition function cannot do atomically. Such a
// function is split in two: a publish Func that writes the agent's current
// (pre-update) fields to a message, and an update Func that consumes that
// message and performs the original body's writes. The two are connected
// by one synthesized message, and the publish Func is always laid out in
// an earlier layer than the update Func (see assignLayers).
func GenerateFromScript(script *ast.Script) (*Model, error) {
	m := &Model{}
	for _, agent := range script.Agents {
		for _, fnName := range stepFuncsFor(script, agent) {
			fn := lookupFunc(script, fnName)
			if fn == nil {
				continue
			}

			reads := fn.CallsNear
			writes := len(fn.WritesMembers) > 0

			switch {
			case reads && writes:
				msgName := fmt.Sprintf("%s_msg", agent.Name)
				m.Messages = append(m.Messages, Message{
					Name:    msgName,
					Agent:   agent,
					Members: agent.Members,
				})
				m.Funcs = append(m.Funcs,
					Func{Name: fn.Name + "_publish", Agent: agent, Decl: fn, OutMsgName: msgName},
					Func{Name: fn.Name + "_update", Agent: agent, Decl: fn, InMsgName: msgName},
				)
			case reads:
				msgName := fmt.Sprintf("%s_msg", agent.Name)
				m.Messages = append(m.Messages, Message{
					Name:    msgName,
					Agent:   agent,
					Members: agent.Members,
				})
				m.Funcs = append(m.Funcs, Func{Name: fn.Name, Agent: agent, Decl: fn, InMsgName: msgName})
			case writes:
				m.Funcs = append(m.Funcs, Func{Name: fn.Name, Agent: agent, Decl: fn, OutMsgName: fmt.Sprintf("%s_out", agent.Name)})
			default:
				m.Funcs = append(m.Funcs, Func{Name: fn.Name, Agent: agent, Decl: fn})
			}
		}
	}
	if err := assignLayers(m); err != nil {
		return nil, err
	}
	return m, nil
}

// assignLayers gives every Func a Layer such that for every publish/consume
// pair (p, c) connected by a message, layer(p) < layer(c). It relaxes
// layers upward (longest-path scheduling) until no Func's layer changes;
// a Model whose publish/consume messages form a cycle never stabilizes and
// is rejected, since FLAME layers must execute in a fixed linear order.
func assignLayers(m *Model) error {
	producers := map[string][]int{} // message name -> Func indices that publish it
	consumers := map[string][]int{} // message name -> Func indices that consume it
	for i, f := range m.Funcs {
		if f.OutMsgName != "" {
			producers[f.OutMsgName] = append(producers[f.OutMsgName], i)
		}
		if f.InMsgName != "" {
			consumers[f.InMsgName] = append(consumers[f.InMsgName], i)
		}
	}

	for pass := 0; pass <= len(m.Funcs); pass++ {
		changed := false
		for msgName, prodIdxs := range producers {
			for _, ci := range consumers[msgName] {
				for _, pi := range prodIdxs {
					if m.Funcs[ci].Layer <= m.Funcs[pi].Layer {
						m.Funcs[ci].Layer = m.Funcs[pi].Layer + 1
						changed = true
					}
				}
			}
		}
		if !changed {
			return nil
		}
	}
	return fmt.Errorf("flamemodel: publish/consume messages form a cycle, cannot assign layers")
}

// Layers groups Funcs by Layer, ascending, for backends that emit one FLAME
// <layer> element per execution layer.
func (m *Model) Layers() [][]Func {
	if len(m.Funcs) == 0 {
		return nil
	}
	max := 0
	for _, f := range m.Funcs {
		if f.Layer > max {
			max = f.Layer
		}
	}
	layers := make([][]Func, max+1)
	for _, f := range m.Funcs {
		layers[f.Layer] = append(layers[f.Layer], f)
	}
	// Stable, deterministic ordering within a layer: by agent name then func name.
	for _, fs := range layers {
		sort.Slice(fs, func(i, j int) bool {
			if fs[i].Agent.Name != fs[j].Agent.Name {
				return fs[i].Agent.Name < fs[j].Agent.Name
			}
			return fs[i].Name < fs[j].Name
		})
	}
	return layers
}

// stepFuncsFor returns the simulate block's step function names whose sole
// parameter agent type matches agent, in simulate order.
func stepFuncsFor(script *ast.Script, agent *ast.AgentDeclaration) []string {
	if script.Simulate == nil {
		return nil
	}
	var names []string
	for _, name := range script.Simulate.Stmt.StepFuncs {
		fn := lookupFunc(script, name)
		if fn == nil || len(fn.Params) == 0 {
			continue
		}
		if fn.Params[0].Type.Resolved.Kind == types.Agent && fn.Params[0].Type.Resolved.AgentName == agent.Name {
			names = append(names, name)
		}
	}
	return names
}

func lookupFunc(script *ast.Script, name string) *ast.FunctionDeclaration {
	for _, fn := range script.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

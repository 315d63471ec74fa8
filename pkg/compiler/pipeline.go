// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	log "github.com/sirupsen/logrus"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/emit"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

// CompilationConfig selects the pipeline's target emitter, memory-management
// strategy and diagnostic behavior (spec.md §2, §4).
type CompilationConfig struct {
	// Target renders the lowered module to source text. Required unless
	// ValidateOnly is set.
	Target emit.Emitter
	// MemoryMode governs ownership-cycle severity (error vs warning) and
	// whether the NullSafetyAnalyzer runs at all (spec.md §4.3, §4.4).
	MemoryMode ast.MemoryMode
	// SourceMap requests (file, line) directives in emitted output.
	SourceMap bool
	// SkipValidation bypasses the Validator, for pre-validated input (e.g.
	// a module already checked once in an editor-integration scenario).
	SkipValidation bool
	// ValidateOnly stops the pipeline after the Validator and any analysis
	// passes the memory mode enables, never invoking Target.
	ValidateOnly bool
}

// Pipeline wires the staged passes together: Validator, Lowerer,
// OwnershipAnalyzer, NullSafetyAnalyzer, PeepholeOptimizer, Emitter
// (spec.md §2). It runs every module independently — a module whose
// Validator or Lowerer pass fails does not stop the others from compiling
// (spec.md §7).
type Pipeline struct {
	modules  []*ast.Module
	oracle   ast.SymbolOracle
	cfg      CompilationConfig
	registry *ir.StructRegistry
}

// NewPipeline constructs a Pipeline over the given modules, resolving types
// through oracle.
func NewPipeline(modules []*ast.Module, oracle ast.SymbolOracle) *Pipeline {
	return &Pipeline{modules: modules, oracle: oracle, registry: ir.NewStructRegistry()}
}

// WithConfig attaches cfg and returns the Pipeline for chaining.
func (p *Pipeline) WithConfig(cfg CompilationConfig) *Pipeline {
	p.cfg = cfg
	return p
}

// Registry returns the struct registry shared across every module this
// Pipeline compiles, for callers that need to inspect interned anonymous
// struct definitions after Run (e.g. pkg/cmd's structural-report command).
func (p *Pipeline) Registry() *ir.StructRegistry {
	return p.registry
}

// Result is one module's outcome: emitted source (empty under ValidateOnly),
// every diagnostic collected across all phases, and the module's ownership
// graph (nil unless the ownership-cycle pass ran).
type Result struct {
	Module *ast.Module
	Output string
	Sink   *diag.Sink
	Graph  *ir.Graph
}

// Run executes every phase over every module in order, logging phase
// transitions at debug level, validation and analysis failures at warn
// level, and internal lowering or emission failures at error level
// (go-corset's own `log.SetLevel(log.DebugLevel)` / warn-on-recoverable-
// error convention).
func (p *Pipeline) Run() []Result {
	results := make([]Result, 0, len(p.modules))

	for _, m := range p.modules {
		results = append(results, p.runModule(m))
	}

	return results
}

func (p *Pipeline) runModule(m *ast.Module) Result {
	log.WithField("module", m.Path).Debug("compiling module")

	sink := diag.NewSink()

	if !p.cfg.SkipValidation {
		log.WithField("module", m.Path).Debug("validating")

		v := NewValidator(sink)
		v.ValidateModule(m)

		if sink.HasErrors() {
			log.WithField("module", m.Path).Warn("validation failed, skipping lowering")
			return Result{Module: m, Sink: sink}
		}
	}

	log.WithField("module", m.Path).Debug("lowering")

	lowerer := NewLowerer(p.oracle, p.cfg.MemoryMode, p.registry)

	lowered, lowerSink, err := lowerer.LowerModule(m)
	sink.Merge(lowerSink)

	if err != nil {
		log.WithField("module", m.Path).WithError(err).Error("lowering aborted")
		sink.Addf("GS999", diag.Error, "internal error during lowering: %s", err.Error())

		return Result{Module: m, Sink: sink}
	}

	log.WithField("module", m.Path).Debug("ownership analysis")

	ownership := NewOwnershipAnalyzer(p.cfg.MemoryMode)
	graph, ownershipSink := ownership.AnalyzeModule(lowered)
	sink.Merge(ownershipSink)

	log.WithField("module", m.Path).Debug("null-safety analysis")

	nullSafety := NewNullSafetyAnalyzer(p.cfg.MemoryMode)
	sink.Merge(nullSafety.AnalyzeModule(lowered))

	if p.cfg.ValidateOnly {
		return Result{Module: lowered, Sink: sink, Graph: graph}
	}

	if sink.HasErrors() {
		log.WithField("module", m.Path).Warn("analysis errors present, skipping emission")
		return Result{Module: lowered, Sink: sink, Graph: graph}
	}

	log.WithField("module", m.Path).Debug("peephole optimization")

	NewPeepholeOptimizer().OptimizeModule(lowered)

	if p.cfg.Target == nil {
		sink.Addf("GS999", diag.Error, "internal error: no emitter configured")
		return Result{Module: lowered, Sink: sink, Graph: graph}
	}

	log.WithField("module", m.Path).Debug("emitting")

	output, err := p.cfg.Target.EmitModule(lowered, p.registry, p.cfg.MemoryMode, p.cfg.SourceMap)
	if err != nil {
		log.WithField("module", m.Path).WithError(err).Error("emission failed")
		sink.Addf("GS999", diag.Error, "internal error during emission: %s", err.Error())

		return Result{Module: lowered, Sink: sink, Graph: graph}
	}

	return Result{Module: lowered, Output: output, Sink: sink, Graph: graph}
}

package codegen

import (
	"fmt"
	"go/format"
	"os"

	"github.com/KromDaniel/tagdfa/internal/determinize"
	"github.com/KromDaniel/tagdfa/internal/table"
	"github.com/KromDaniel/tagdfa/internal/tnfa"
	"github.com/dave/jennifer/jen"
)

// Config holds the configuration for code generation.
type Config struct {
	Pattern    string
	Name       string
	OutputFile string
	Package    string
}

// Generator emits a standalone Go matcher for one compiled transition table.
// The generated file has no dependencies: the table is embedded as data and
// driven by a small generated interpreter loop.
type Generator struct {
	cfg   Config
	table *table.TransitionTable
	file  *jen.File
}

// New creates a generator for the given table.
func New(cfg Config, tbl *table.TransitionTable) *Generator {
	return &Generator{
		cfg:   cfg,
		table: tbl,
		file:  jen.NewFile(cfg.Package),
	}
}

// prefix returns the lower-cased identifier prefix for generated data.
func (g *Generator) prefix() string {
	return LowerFirst(g.cfg.Name)
}

type edgeData struct {
	rng    tnfa.InputRange
	instrs []table.Instr
	next   int
}

// Generate generates the Go code and writes it to the output file.
func (g *Generator) Generate() error {
	g.file.Comment(fmt.Sprintf("Code generated by tagdfa for pattern: %s", g.cfg.Pattern))
	g.file.Comment("DO NOT EDIT.")
	g.file.Line()

	g.generateTypes()
	g.generateData()
	g.generateExec()
	g.generateSnapshot()
	g.generateFindAt()
	g.generateAPI()

	if err := g.file.Save(g.cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return formatFile(g.cfg.OutputFile)
}

// generateTypes emits the instruction/edge data types and the match struct.
func (g *Generator) generateTypes() {
	p := g.prefix()

	g.file.Type().Id(p + "Instr").Struct(
		jen.Id("op").Int(),
		jen.Id("target").Int(),
		jen.Id("source").Int(),
	)
	g.file.Type().Id(p + "Edge").Struct(
		jen.Id("lo").Rune(),
		jen.Id("hi").Rune(),
		jen.Id("next").Int(),
		jen.Id("instrs").Index().Id(p+"Instr"),
	)
	g.file.Line()

	matchName := g.cfg.Name + "Match"
	g.file.Comment(fmt.Sprintf("%s holds capture groups as half-open rune index pairs.", matchName))
	g.file.Comment("Unmatched groups are [-1, -1]; Groups[0] spans the whole match.")
	g.file.Type().Id(matchName).Struct(
		jen.Id("runes").Index().Rune(),
		jen.Id("Groups").Index().Index(jen.Lit(2)).Int(),
	)
	g.file.Line()

	// Group accessor on the match struct
	g.file.Func().
		Params(jen.Id("m").Id(matchName)).
		Id("Group").
		Params(jen.Id("g").Int()).
		Params(jen.String(), jen.Bool()).
		Block(
			jen.If(jen.Id("g").Op("<").Lit(0).Op("||").Id("g").Op(">=").Len(jen.Id("m").Dot("Groups")).Op("||").Id("m").Dot("Groups").Index(jen.Id("g")).Index(jen.Lit(0)).Op("<").Lit(0)).Block(
				jen.Return(jen.Lit(""), jen.False()),
			),
			jen.Return(
				jen.String().Parens(jen.Id("m").Dot("runes").Index(
					jen.Id("m").Dot("Groups").Index(jen.Id("g")).Index(jen.Lit(0)).
						Op(":").
						Add(jen.Id("m").Dot("Groups").Index(jen.Id("g")).Index(jen.Lit(1))),
				)),
				jen.True(),
			),
		)
	g.file.Line()
}

func (g *Generator) instrValues(instrs []table.Instr) []jen.Code {
	out := make([]jen.Code, len(instrs))
	for i, in := range instrs {
		out[i] = jen.Values(jen.Lit(int(in.Op)), jen.Lit(in.Target), jen.Lit(in.Source))
	}
	return out
}

// generateData embeds the transition table as package-level data.
func (g *Generator) generateData() {
	p := g.prefix()
	n := g.table.NumStates()

	edges := make([][]edgeData, n)
	g.table.Edges(func(from int, rng tnfa.InputRange, instrs []table.Instr, to int) {
		edges[from] = append(edges[from], edgeData{rng: rng, instrs: instrs, next: to})
	})

	g.file.Const().Defs(
		jen.Id(p+"Start").Op("=").Lit(g.table.StartState()),
		jen.Id(p+"Histories").Op("=").Lit(g.table.HistoryCount()),
		jen.Id(p+"Groups").Op("=").Lit(g.table.GroupCount()),
	)

	g.file.Var().Id(p+"Init").Op("=").Index().Id(p + "Instr").Values(g.instrValues(g.table.StartInstructions())...)

	stateRows := make([]jen.Code, n)
	for id := 0; id < n; id++ {
		rows := make([]jen.Code, len(edges[id]))
		for i, e := range edges[id] {
			rows[i] = jen.Values(jen.Dict{
				jen.Id("lo"):     jen.LitRune(e.rng.Lo),
				jen.Id("hi"):     jen.LitRune(e.rng.Hi),
				jen.Id("next"):   jen.Lit(e.next),
				jen.Id("instrs"): jen.Index().Id(p + "Instr").Values(g.instrValues(e.instrs)...),
			})
		}
		stateRows[id] = jen.Values(rows...)
	}
	g.file.Comment("Per-state outgoing edges, ranges inclusive")
	g.file.Var().Id(p+"Edges").Op("=").Index(jen.Lit(n)).Index().Id(p + "Edge").Values(stateRows...)

	acceptRows := make([]jen.Code, n)
	for id := 0; id < n; id++ {
		slots, ok := g.table.AcceptSlots(id)
		if !ok {
			acceptRows[id] = jen.Nil()
			continue
		}
		vals := make([]jen.Code, len(slots))
		for i, s := range slots {
			vals[i] = jen.Lit(s)
		}
		acceptRows[id] = jen.Values(vals...)
	}
	g.file.Comment("Per-state accept slot vectors, nil when the state does not accept")
	g.file.Var().Id(p+"Accept").Op("=").Index(jen.Lit(n)).Index().Int().Values(acceptRows...)
	g.file.Line()
}

// generateExec emits the instruction interpreter. Opcodes are embedded as
// ints: 0 reorder, 1 store, 2 store+1, 3/4 commits.
func (g *Generator) generateExec() {
	p := g.prefix()

	g.file.Func().Id(p+"Exec").
		Params(
			jen.Id("instrs").Index().Id(p+"Instr"),
			jen.Id("pos").Int(),
			jen.List(jen.Id(CellsName), jen.Id(CommittedName)).Index().Int(),
		).
		Block(
			jen.For(jen.List(jen.Id("_"), jen.Id("in")).Op(":=").Range().Id("instrs")).Block(
				jen.Switch(jen.Id("in").Dot("op")).Block(
					jen.Case(jen.Lit(int(determinize.OpReorder))).Block(
						jen.Id(CellsName).Index(jen.Id("in").Dot("target")).Op("=").Id(CellsName).Index(jen.Id("in").Dot("source")),
						jen.Id(CommittedName).Index(jen.Id("in").Dot("target")).Op("=").Id(CommittedName).Index(jen.Id("in").Dot("source")),
					),
					jen.Case(jen.Lit(int(determinize.OpStorePos))).Block(
						jen.Id(CellsName).Index(jen.Id("in").Dot("target")).Op("=").Id("pos"),
					),
					jen.Case(jen.Lit(int(determinize.OpStorePosPlusOne))).Block(
						jen.Id(CellsName).Index(jen.Id("in").Dot("target")).Op("=").Id("pos").Op("+").Lit(1),
					),
					jen.Default().Block(
						jen.Id(CommittedName).Index(jen.Id("in").Dot("target")).Op("=").Id(CellsName).Index(jen.Id("in").Dot("target")),
					),
				),
			),
		)
	g.file.Line()
}

// generateSnapshot emits the capture materialization helper.
func (g *Generator) generateSnapshot() {
	p := g.prefix()
	matchName := g.cfg.Name + "Match"

	g.file.Func().Id(p+"Snapshot").
		Params(
			jen.Id(RunesName).Index().Rune(),
			jen.Id(CommittedName).Index().Int(),
			jen.Id(StateName).Int(),
		).
		Params(jen.Id(matchName)).
		Block(
			jen.Id("slots").Op(":=").Id(p+"Accept").Index(jen.Id(StateName)),
			jen.Id("groups").Op(":=").Make(jen.Index().Index(jen.Lit(2)).Int(), jen.Id(p+"Groups")),
			jen.For(jen.Id("g").Op(":=").Lit(0), jen.Id("g").Op("<").Id(p+"Groups"), jen.Id("g").Op("++")).Block(
				jen.Id("start").Op(":=").Id(CommittedName).Index(jen.Id("slots").Index(jen.Lit(2).Op("*").Id("g"))),
				jen.Id("end").Op(":=").Id(CommittedName).Index(jen.Id("slots").Index(jen.Lit(2).Op("*").Id("g").Op("+").Lit(1))),
				jen.Comment("A closing slot can hold -1 for an empty match at offset 0;"),
				jen.Comment("the opening slot alone decides participation."),
				jen.If(jen.Id("start").Op("<").Lit(0)).Block(
					jen.Id("groups").Index(jen.Id("g")).Op("=").Index(jen.Lit(2)).Int().Values(jen.Lit(-1), jen.Lit(-1)),
					jen.Continue(),
				),
				jen.Id("groups").Index(jen.Id("g")).Op("=").Index(jen.Lit(2)).Int().Values(jen.Id("start"), jen.Id("end").Op("+").Lit(1)),
			),
			jen.Return(jen.Id(matchName).Values(jen.Dict{
				jen.Id("runes"):  jen.Id(RunesName),
				jen.Id("Groups"): jen.Id("groups"),
			})),
		)
	g.file.Line()
}

// generateFindAt emits the anchored matching loop.
func (g *Generator) generateFindAt() {
	p := g.prefix()
	matchName := g.cfg.Name + "Match"

	g.file.Func().Id(p+"FindAt").
		Params(jen.Id(RunesName).Index().Rune(), jen.Id(OffsetName).Int()).
		Params(jen.Id(matchName), jen.Bool()).
		Block(
			jen.Id(CellsName).Op(":=").Make(jen.Index().Int(), jen.Id(p+"Histories")),
			jen.Id(CommittedName).Op(":=").Make(jen.Index().Int(), jen.Id(p+"Histories")),
			jen.For(jen.Id("i").Op(":=").Range().Id(CellsName)).Block(
				jen.Id(CellsName).Index(jen.Id("i")).Op("=").Lit(-1),
				jen.Id(CommittedName).Index(jen.Id("i")).Op("=").Lit(-1),
			),
			jen.Line(),
			jen.Id(p+"Exec").Call(jen.Id(p+"Init"), jen.Id(OffsetName).Op("-").Lit(1), jen.Id(CellsName), jen.Id(CommittedName)),
			jen.Id(StateName).Op(":=").Id(p+"Start"),
			jen.Var().Id(BestName).Id(matchName),
			jen.Id("found").Op(":=").False(),
			jen.If(jen.Id(p+"Accept").Index(jen.Id(StateName)).Op("!=").Nil()).Block(
				jen.Id(BestName).Op("=").Id(p+"Snapshot").Call(jen.Id(RunesName), jen.Id(CommittedName), jen.Id(StateName)),
				jen.Id("found").Op("=").True(),
			),
			jen.Line(),
			jen.For(jen.Id("j").Op(":=").Id(OffsetName), jen.Id("j").Op("<").Len(jen.Id(RunesName)), jen.Id("j").Op("++")).Block(
				jen.Id("r").Op(":=").Id(RunesName).Index(jen.Id("j")),
				jen.Id("next").Op(":=").Lit(-1),
				jen.Var().Id("instrs").Index().Id(p+"Instr"),
				jen.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Id(p+"Edges").Index(jen.Id(StateName))).Block(
					jen.If(jen.Id("e").Dot("lo").Op("<=").Id("r").Op("&&").Id("r").Op("<=").Id("e").Dot("hi")).Block(
						jen.Id("next").Op("=").Id("e").Dot("next"),
						jen.Id("instrs").Op("=").Id("e").Dot("instrs"),
						jen.Break(),
					),
				),
				jen.If(jen.Id("next").Op("<").Lit(0)).Block(jen.Break()),
				jen.Id(p+"Exec").Call(jen.Id("instrs"), jen.Id("j"), jen.Id(CellsName), jen.Id(CommittedName)),
				jen.Id(StateName).Op("=").Id("next"),
				jen.If(jen.Id(p+"Accept").Index(jen.Id(StateName)).Op("!=").Nil()).Block(
					jen.Id(BestName).Op("=").Id(p+"Snapshot").Call(jen.Id(RunesName), jen.Id(CommittedName), jen.Id(StateName)),
					jen.Id("found").Op("=").True(),
				),
			),
			jen.Return(jen.Id(BestName), jen.Id("found")),
		)
	g.file.Line()
}

// generateAPI emits the exported matcher type and its methods.
func (g *Generator) generateAPI() {
	p := g.prefix()
	name := g.cfg.Name
	matchName := name + "Match"

	g.file.Type().Id(name).Struct()
	g.file.Var().Id("Compiled" + name).Op("=").Id(name).Values()
	g.file.Line()

	method := func(fn string) *jen.Statement {
		return g.file.Func().Params(jen.Id(name)).Id(fn)
	}

	method("FindString").
		Params(jen.Id(InputName).String()).
		Params(jen.Id(matchName), jen.Bool()).
		Block(
			jen.Id(RunesName).Op(":=").Index().Rune().Parens(jen.Id(InputName)),
			jen.For(jen.Id(OffsetName).Op(":=").Lit(0), jen.Id(OffsetName).Op("<=").Len(jen.Id(RunesName)), jen.Id(OffsetName).Op("++")).Block(
				jen.If(jen.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id(p+"FindAt").Call(jen.Id(RunesName), jen.Id(OffsetName)), jen.Id("ok")).Block(
					jen.Return(jen.Id("m"), jen.True()),
				),
			),
			jen.Return(jen.Id(matchName).Values(), jen.False()),
		)

	method("MatchString").
		Params(jen.Id(InputName).String()).
		Params(jen.Bool()).
		Block(
			jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id(name).Values().Dot("FindString").Call(jen.Id(InputName)),
			jen.Return(jen.Id("ok")),
		)

	method("FindAllString").
		Params(jen.Id(InputName).String(), jen.Id("n").Int()).
		Params(jen.Index().Id(matchName)).
		Block(
			jen.If(jen.Id("n").Op("==").Lit(0)).Block(jen.Return(jen.Nil())),
			jen.Id(RunesName).Op(":=").Index().Rune().Parens(jen.Id(InputName)),
			jen.Var().Id("results").Index().Id(matchName),
			jen.Id(OffsetName).Op(":=").Lit(0),
			jen.For(jen.Id(OffsetName).Op("<=").Len(jen.Id(RunesName))).Block(
				jen.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id(p+"FindAt").Call(jen.Id(RunesName), jen.Id(OffsetName)),
				jen.If(jen.Op("!").Id("ok")).Block(
					jen.Id(OffsetName).Op("++"),
					jen.Continue(),
				),
				jen.Id("results").Op("=").Append(jen.Id("results"), jen.Id("m")),
				jen.If(jen.Id("n").Op(">").Lit(0).Op("&&").Len(jen.Id("results")).Op(">=").Id("n")).Block(
					jen.Break(),
				),
				jen.Comment("Move past this match"),
				jen.If(jen.Id("m").Dot("Groups").Index(jen.Lit(0)).Index(jen.Lit(1)).Op(">").Id(OffsetName)).Block(
					jen.Id(OffsetName).Op("=").Id("m").Dot("Groups").Index(jen.Lit(0)).Index(jen.Lit(1)),
				).Else().Block(
					jen.Id(OffsetName).Op("++"),
				),
			),
			jen.Return(jen.Id("results")),
		)
}

// formatFile reads a file, formats it with go/format, and writes it back.
func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	formatted, err := format.Source(src)
	if err != nil {
		return err
	}

	return os.WriteFile(path, formatted, 0644)
}

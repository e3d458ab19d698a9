package tnfa

import (
	"fmt"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// Compile parses a pattern with regexp/syntax and builds the equivalent TNFA.
// The whole pattern is wrapped in capture group 0.
func Compile(pattern string) (*TNFA, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}
	return FromSyntax(re.Simplify())
}

// FromSyntax builds a TNFA from a simplified regexp/syntax AST.
func FromSyntax(re *syntax.Regexp) (*TNFA, error) {
	c := &converter{b: NewBuilder(), groups: make(map[int]*CaptureGroup)}

	root := c.b.NewGroup(nil)
	c.groups[0] = root
	if err := c.collectGroups(re, root); err != nil {
		return nil, err
	}

	f, err := c.compile(re)
	if err != nil {
		return nil, err
	}

	initial := c.b.NewState()
	final := c.b.NewState()
	c.b.AddEpsilonTransition(initial, Normal, root.StartTag, f.start)
	c.b.AddEpsilonTransition(f.end, Normal, root.EndTag, final)
	c.b.SetInitial(initial)
	c.b.AddFinal(final)

	return c.b.Build()
}

// frag is a partial automaton with single entry and exit states.
type frag struct {
	start *State
	end   *State
}

type converter struct {
	b      *Builder
	groups map[int]*CaptureGroup
}

// collectGroups allocates capture groups in preorder, which matches the dense
// left-to-right numbering regexp/syntax assigns to OpCapture nodes.
func (c *converter) collectGroups(re *syntax.Regexp, parent *CaptureGroup) error {
	if re.Op == syntax.OpCapture {
		g := c.b.NewGroup(parent)
		if g.Number != re.Cap {
			return fmt.Errorf("tnfa: non-dense capture numbering: got %d, want %d", re.Cap, g.Number)
		}
		c.groups[re.Cap] = g
		parent = g
	}
	for _, sub := range re.Sub {
		if err := c.collectGroups(sub, parent); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) compile(re *syntax.Regexp) (frag, error) {
	switch re.Op {
	case syntax.OpEmptyMatch:
		s := c.b.NewState()
		return frag{start: s, end: s}, nil

	case syntax.OpLiteral:
		s := c.b.NewState()
		cur := s
		for _, r := range re.Rune {
			next := c.b.NewState()
			c.addRune(cur, r, re.Flags&syntax.FoldCase != 0, next)
			cur = next
		}
		return frag{start: s, end: cur}, nil

	case syntax.OpCharClass:
		s, e := c.b.NewState(), c.b.NewState()
		for i := 0; i+1 < len(re.Rune); i += 2 {
			c.b.AddSymbolTransition(s, NewInputRange(re.Rune[i], re.Rune[i+1]), Normal, e)
		}
		return frag{start: s, end: e}, nil

	case syntax.OpAnyChar:
		s, e := c.b.NewState(), c.b.NewState()
		c.b.AddSymbolTransition(s, NewInputRange(0, utf8.MaxRune), Normal, e)
		return frag{start: s, end: e}, nil

	case syntax.OpAnyCharNotNL:
		s, e := c.b.NewState(), c.b.NewState()
		c.b.AddSymbolTransition(s, NewInputRange(0, '\n'-1), Normal, e)
		c.b.AddSymbolTransition(s, NewInputRange('\n'+1, utf8.MaxRune), Normal, e)
		return frag{start: s, end: e}, nil

	case syntax.OpConcat:
		if len(re.Sub) == 0 {
			s := c.b.NewState()
			return frag{start: s, end: s}, nil
		}
		first, err := c.compile(re.Sub[0])
		if err != nil {
			return frag{}, err
		}
		prev := first
		for _, sub := range re.Sub[1:] {
			f, err := c.compile(sub)
			if err != nil {
				return frag{}, err
			}
			c.b.AddEpsilonTransition(prev.end, Normal, nil, f.start)
			prev = f
		}
		return frag{start: first.start, end: prev.end}, nil

	case syntax.OpAlternate:
		s, e := c.b.NewState(), c.b.NewState()
		// The closure explores the last-listed Normal edge first, so append
		// alternatives least-preferred first to keep alternation leftmost.
		for i := len(re.Sub) - 1; i >= 0; i-- {
			f, err := c.compile(re.Sub[i])
			if err != nil {
				return frag{}, err
			}
			c.b.AddEpsilonTransition(s, Normal, nil, f.start)
			c.b.AddEpsilonTransition(f.end, Normal, nil, e)
		}
		return frag{start: s, end: e}, nil

	case syntax.OpStar:
		body, err := c.compile(re.Sub[0])
		if err != nil {
			return frag{}, err
		}
		s, e := c.b.NewState(), c.b.NewState()
		enter, exit := c.repeatPriorities(re)
		c.b.AddEpsilonTransition(s, enter, nil, body.start)
		c.b.AddEpsilonTransition(s, exit, nil, e)
		c.b.AddEpsilonTransition(body.end, Normal, nil, s)
		return frag{start: s, end: e}, nil

	case syntax.OpPlus:
		body, err := c.compile(re.Sub[0])
		if err != nil {
			return frag{}, err
		}
		loop, e := c.b.NewState(), c.b.NewState()
		enter, exit := c.repeatPriorities(re)
		c.b.AddEpsilonTransition(body.end, Normal, nil, loop)
		c.b.AddEpsilonTransition(loop, enter, nil, body.start)
		c.b.AddEpsilonTransition(loop, exit, nil, e)
		return frag{start: body.start, end: e}, nil

	case syntax.OpQuest:
		body, err := c.compile(re.Sub[0])
		if err != nil {
			return frag{}, err
		}
		s, e := c.b.NewState(), c.b.NewState()
		enter, exit := c.repeatPriorities(re)
		c.b.AddEpsilonTransition(s, enter, nil, body.start)
		c.b.AddEpsilonTransition(s, exit, nil, e)
		c.b.AddEpsilonTransition(body.end, Normal, nil, e)
		return frag{start: s, end: e}, nil

	case syntax.OpCapture:
		g := c.groups[re.Cap]
		body, err := c.compile(re.Sub[0])
		if err != nil {
			return frag{}, err
		}
		s, e := c.b.NewState(), c.b.NewState()
		c.b.AddEpsilonTransition(s, Normal, g.StartTag, body.start)
		c.b.AddEpsilonTransition(body.end, Normal, g.EndTag, e)
		return frag{start: s, end: e}, nil

	default:
		return frag{}, fmt.Errorf("tnfa: unsupported op %v", re.Op)
	}
}

// repeatPriorities returns the enter/exit priorities of a quantifier body.
// Greedy quantifiers prefer entering the body; lazy ones prefer leaving.
func (c *converter) repeatPriorities(re *syntax.Regexp) (enter, exit Priority) {
	if re.Flags&syntax.NonGreedy != 0 {
		return Low, Normal
	}
	return Normal, Low
}

// addRune adds the symbol transitions for a single literal rune, expanding
// case folds when the literal is case-insensitive.
func (c *converter) addRune(from *State, r rune, foldCase bool, to *State) {
	c.b.AddSymbolTransition(from, Single(r), Normal, to)
	if !foldCase {
		return
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		c.b.AddSymbolTransition(from, Single(f), Normal, to)
	}
}

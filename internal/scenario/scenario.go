package scenario

import (
	"fmt"
	"os"

	"github.com/vango-dev/incdom/internal/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is a sequence of passes replayed against one host tree.
type Scenario struct {
	// Name is a human-readable label.
	Name string `yaml:"name"`

	// Debug enables the engine's usage assertions during replay.
	Debug bool `yaml:"debug"`

	// Passes are applied in order to the same root.
	Passes []Pass `yaml:"passes"`

	// file is the path the scenario was loaded from, used for error
	// locations.
	file string
}

// Pass is one patch call.
type Pass struct {
	// Name labels the pass in output.
	Name string `yaml:"name"`

	// Outer patches the root's first child itself instead of the root's
	// children. At most one top-level node may be declared.
	Outer bool `yaml:"outer"`

	// Nodes are the top-level declarations.
	Nodes []Node `yaml:"nodes"`
}

// Node is one declaration. Exactly one of Open, Custom and Text is set.
type Node struct {
	Open     string            `yaml:"open"`
	Custom   string            `yaml:"custom"`
	Text     *string           `yaml:"text"`
	Key      string            `yaml:"key"`
	Attrs    map[string]string `yaml:"attrs"`
	Skip     bool              `yaml:"skip"`
	Focus    bool              `yaml:"focus"`
	Children []Node            `yaml:"children"`

	// Line and Column locate the node in its source file.
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the node's position while decoding it.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = Node(p)
	n.Line = value.Line
	n.Column = value.Column
	return nil
}

// IsText reports whether the node declares a text node.
func (n *Node) IsText() bool { return n.Text != nil }

// Tag returns the element tag, or the custom element name.
func (n *Node) Tag() string {
	if n.Custom != "" {
		return n.Custom
	}
	return n.Open
}

// File returns the path the scenario was loaded from, if any.
func (s *Scenario) File() string { return s.file }

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E020").
			WithDetail("Could not read " + path).
			Wrap(err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a scenario. file is only used in error
// locations and may be empty.
func Parse(data []byte, file string) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.New("E023").
			WithDetail(err.Error()).
			WithSuggestion("Check the indentation and that every node is a mapping")
	}
	s.file = file
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the structure of every pass.
func (s *Scenario) Validate() error {
	if len(s.Passes) == 0 {
		return errors.New("E022").
			WithSuggestion("Add a 'passes' list with at least one entry")
	}
	for i := range s.Passes {
		p := &s.Passes[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("pass %d", i+1)
		}
		if p.Outer && len(p.Nodes) > 1 {
			err := errors.New("E025").
				WithDetailf("Pass %q declares %d top-level nodes.", p.Name, len(p.Nodes))
			return s.locate(err, &p.Nodes[1])
		}
		if err := s.validateNodes(p.Nodes); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) validateNodes(nodes []Node) error {
	for i := range nodes {
		n := &nodes[i]
		set := 0
		if n.Open != "" {
			set++
		}
		if n.Custom != "" {
			set++
		}
		if n.IsText() {
			set++
		}

		var detail string
		switch {
		case set != 1:
			detail = "A node must declare exactly one of 'open', 'custom' or 'text'."
		case n.IsText() && (n.Key != "" || n.Skip || len(n.Children) > 0 || len(n.Attrs) > 0):
			detail = "Text nodes cannot have a key, attributes, children or skip."
		case n.Skip && len(n.Children) > 0:
			detail = "A skipped element keeps its existing children and cannot declare new ones."
		}
		if detail != "" {
			return s.locate(errors.New("E021").WithDetail(detail), n)
		}

		if err := s.validateNodes(n.Children); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) locate(err *errors.Error, n *Node) error {
	if s.file == "" || n.Line == 0 {
		return err
	}
	return err.WithLocation(s.file, n.Line, n.Column)
}

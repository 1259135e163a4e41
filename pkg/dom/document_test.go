package dom

import (
	"testing"

	"github.com/vango-dev/incdom/pkg/idom"
)

func TestCreateElementNamespaces(t *testing.T) {
	doc := NewDocument()
	html := doc.NewElement("div")

	svg := unwrap(doc.CreateElement(html, idom.ElementKind("svg"), idom.NoKey))
	html.AppendChild(svg)
	circle := unwrap(doc.CreateElement(svg, idom.ElementKind("circle"), idom.NoKey))
	svg.AppendChild(circle)
	foreign := unwrap(doc.CreateElement(svg, idom.ElementKind("foreignObject"), idom.NoKey))
	svg.AppendChild(foreign)
	inner := unwrap(doc.CreateElement(foreign, idom.ElementKind("p"), idom.NoKey))
	math := unwrap(doc.CreateElement(inner, idom.ElementKind("math"), idom.NoKey))

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"html root", html, HTMLNamespace},
		{"svg", svg, SVGNamespace},
		{"svg child inherits", circle, SVGNamespace},
		{"foreignObject itself", foreign, SVGNamespace},
		{"foreignObject child resets", inner, HTMLNamespace},
		{"math", math, MathMLNamespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Namespace(); got != tt.want {
				t.Errorf("Namespace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateElementRecordsIdentity(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement(nil, idom.ElementKind("li"), "row-1")

	id := doc.Identity(n)
	if id.Kind != idom.ElementKind("li") {
		t.Errorf("Kind = %v, want li", id.Kind)
	}
	if id.Key != "row-1" {
		t.Errorf("Key = %q, want row-1", id.Key)
	}
	if n.ParentNode() != nil {
		t.Error("created elements must be detached")
	}
}

func TestCreateCustomElement(t *testing.T) {
	type chartState struct{ series int }
	chart := &idom.Custom{
		Name: "x-chart",
		New: func(n idom.Node) {
			n.(*Node).SetState(&chartState{series: 3})
		},
	}

	doc := NewDocument()
	n := unwrap(doc.CreateElement(nil, idom.CustomKind(chart), idom.NoKey))

	if n.Tag() != "x-chart" {
		t.Errorf("Tag() = %q, want x-chart", n.Tag())
	}
	st, ok := n.State().(*chartState)
	if !ok || st.series != 3 {
		t.Errorf("State() = %#v, want constructor state", n.State())
	}
	if n.Identity().Kind.Custom() != chart {
		t.Error("identity should keep the custom handle")
	}
}

func TestCreateText(t *testing.T) {
	doc := NewDocument()
	n := unwrap(doc.CreateText())
	if !n.IsText() || n.Data() != "" {
		t.Errorf("CreateText() = %v %q", n.Type(), n.Data())
	}
}

func TestFocusedAncestors(t *testing.T) {
	doc := NewDocument()
	body := doc.NewElement("body")
	form := doc.NewElement("form")
	field := doc.NewElement("div")
	input := doc.NewElement("input")
	aside := doc.NewElement("aside")
	body.AppendChild(form)
	body.AppendChild(aside)
	form.AppendChild(field)
	field.AppendChild(input)

	if got := doc.FocusedAncestors(form, body); got != nil {
		t.Fatalf("no focus: got %v, want nil", got)
	}

	doc.Focus(input)

	got := doc.FocusedAncestors(form, body)
	want := []idom.Node{input, field, form}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := doc.FocusedAncestors(aside, body); got != nil {
		t.Errorf("focus outside node: got %v, want nil", got)
	}

	full := doc.FocusedAncestors(form, nil)
	if len(full) != 4 || full[3] != idom.Node(body) {
		t.Errorf("nil boundary should reach the root, got %d nodes", len(full))
	}
}

func TestMutationsReset(t *testing.T) {
	doc := NewDocument()
	root := doc.NewElement("div")
	root.AppendChild(doc.NewElement("p"))
	if doc.Mutations().Total() != 1 {
		t.Fatalf("Total() = %d, want 1", doc.Mutations().Total())
	}
	doc.ResetMutations()
	if doc.Mutations() != (Mutations{}) {
		t.Errorf("Mutations() = %+v after reset", doc.Mutations())
	}
}

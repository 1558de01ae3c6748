package scene

import "testing"

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	root := &View{
		Children: []Component{
			&Text{Width: f(100), Height: f(20)},
			&WebView{InstanceId: "a"},
			&WebView{InstanceId: "b"},
		},
	}
	if err := Validate(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsConflictingEdges(t *testing.T) {
	root := &View{Pos: Position{Top: f(1), Bottom: f(1)}}
	err := Validate(root)
	if err == nil {
		t.Fatal("expected error")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Path != "root.top/bottom" {
		t.Errorf("Path = %q, want %q", ve.Path, "root.top/bottom")
	}
}

func TestValidateRejectsTextHeightWithoutWidth(t *testing.T) {
	root := &View{Children: []Component{&Text{Height: f(20)}}}
	if err := Validate(root); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateAcceptsTextWidthWithoutHeight(t *testing.T) {
	root := &View{Children: []Component{&Text{Width: f(20)}}}
	if err := Validate(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsDuplicateWebViewInstance(t *testing.T) {
	root := &View{Children: []Component{
		&WebView{InstanceId: "shared"},
		&WebView{InstanceId: "shared"},
	}}
	if err := Validate(root); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateRecursesIntoNestedChildren(t *testing.T) {
	root := &View{Children: []Component{
		&Tiles{Children: []Component{
			&Text{Height: f(20)}, // invalid: height without width
		}},
	}}
	err := Validate(root)
	if err == nil {
		t.Fatal("expected error")
	}
	ve := err.(*ValidationError)
	want := "root.children[0].children[0]"
	if ve.Path != want {
		t.Errorf("Path = %q, want %q", ve.Path, want)
	}
}

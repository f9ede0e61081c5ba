package input

import (
	"strings"
)

// Cursor shape tags.
const (
	ShapeDefault   = "default"
	ShapeText      = "text"
	ShapePointer   = "pointer"
	ShapeColResize = "col-resize"
	ShapeRowResize = "row-resize"
)

// Element is the generic UI node the accessibility hit test yields.
type Element interface {
	Role() string
	Description() string
	Editable() bool
	Parent() Element
}

// HitTester resolves the UI element under a global pointer position.
type HitTester interface {
	ElementAt(x, y float64) Element
}

// InferShape derives a cursor shape from the element under the pointer,
// walking up at most depth parents when the node itself gives no signal.
// Returns "" when nothing matched.
func InferShape(el Element, depth int) string {
	for el != nil && depth > 0 {
		if shape := shapeForElement(el); shape != "" {
			return shape
		}
		el = el.Parent()
		depth--
	}
	return ""
}

func shapeForElement(el Element) string {
	role := strings.ToLower(el.Role())
	desc := strings.ToLower(el.Description())

	switch role {
	case "textfield", "textarea", "searchfield", "combobox":
		return ShapeText
	case "link":
		return ShapePointer
	case "button", "checkbox", "radiobutton", "popupbutton", "menuitem", "tab":
		return ShapePointer
	case "splitter", "resizehandle", "splitgroup":
		if strings.Contains(desc, "vertical") {
			return ShapeRowResize
		}
		return ShapeColResize
	}

	if el.Editable() {
		return ShapeText
	}
	if strings.Contains(desc, "link") {
		return ShapePointer
	}
	return ""
}

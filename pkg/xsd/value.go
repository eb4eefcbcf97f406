package xsd

// ToValue converts a populated tree into plain values: map[string]any for
// nodes, []any for lists and the bound Go value for leaves. ok is false
// when e carries nothing. Nil entries convert to nil with ok true. A node
// holding only simple content converts to that content.
func ToValue(e Entry) (any, bool) {
	switch x := e.(type) {
	case *Leaf:
		if !x.Bound() {
			return nil, false
		}
		if _, isNil := x.Value().(NilValue); isNil {
			return nil, true
		}
		return x.Value(), true
	case *Node:
		if x.Nil {
			return nil, true
		}
		out := make(map[string]any)
		for _, k := range x.Keys() {
			child, _ := x.Get(k)
			if v, ok := ToValue(child); ok {
				out[k] = v
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		if text, ok := out[TextKey]; ok && len(out) == 1 {
			return text, true
		}
		return out, true
	case *List:
		if len(x.Items) == 0 {
			return nil, false
		}
		out := make([]any, len(x.Items))
		for i, item := range x.Items {
			out[i], _ = ToValue(item)
		}
		return out, true
	}
	return nil, false
}

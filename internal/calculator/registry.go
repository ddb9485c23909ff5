package calculator

import "fmt"

// Registry is the append-only list of instances. Indices come from a
// monotonic counter and are never reused.
type Registry struct {
	instances []*Instance
	next      int
}

func (r *Registry) add(in *Instance) *Instance {
	in.Index = r.next
	r.next++
	if in.Name == "" {
		in.Name = fmt.Sprintf("Preset %d", in.Index)
	}
	r.instances = append(r.instances, in)
	return in
}

// Get returns the instance registered under index.
func (r *Registry) Get(index int) (*Instance, bool) {
	if index >= 0 && index < len(r.instances) && r.instances[index].Index == index {
		return r.instances[index], true
	}
	for _, in := range r.instances {
		if in.Index == index {
			return in, true
		}
	}
	return nil, false
}

// All returns the instances in registration order.
func (r *Registry) All() []*Instance {
	return append([]*Instance(nil), r.instances...)
}

func elementID(base string, index int) string {
	return fmt.Sprintf("%s-%d", base, index)
}

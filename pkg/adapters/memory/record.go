package memory

import "sync"

// Call is one recorded fake-gateway invocation.
type Call struct {
	Op       string
	Args     []string
	Mutating bool
}

// recorder collects ordered calls. Embedded by every fake so tests can
// assert exactly what a pipeline run touched.
type recorder struct {
	recMu sync.Mutex
	calls []Call
}

func (r *recorder) record(op string, mutating bool, args ...string) {
	r.recMu.Lock()
	defer r.recMu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Args: args, Mutating: mutating})
}

// Calls returns every invocation in order.
func (r *recorder) Calls() []Call {
	r.recMu.Lock()
	defer r.recMu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the invocation names in order.
func (r *recorder) Ops() []string {
	r.recMu.Lock()
	defer r.recMu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Op)
	}
	return out
}

// Mutations returns the names of mutating invocations in order. Dry-run
// tests assert this stays empty.
func (r *recorder) Mutations() []string {
	r.recMu.Lock()
	defer r.recMu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c.Mutating {
			out = append(out, c.Op)
		}
	}
	return out
}

// Reset clears the record.
func (r *recorder) Reset() {
	r.recMu.Lock()
	defer r.recMu.Unlock()
	r.calls = nil
}

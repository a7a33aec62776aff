package host

// Disposable releases a resource.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func()

func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Once wraps fn so repeated Dispose calls run it a single time.
func Once(fn func()) Disposable {
	return &onceDisposable{fn: fn}
}

type onceDisposable struct {
	fn func()
}

func (o *onceDisposable) Dispose() {
	if o.fn == nil {
		return
	}
	fn := o.fn
	o.fn = nil
	fn()
}

// Disposables is a stack of cleanup handles released last-in first-out.
type Disposables struct {
	items []Disposable
}

// Push registers handles. Nil entries are skipped.
func (d *Disposables) Push(items ...Disposable) {
	for _, item := range items {
		if item != nil {
			d.items = append(d.items, item)
		}
	}
}

// Len reports the number of handles not yet released.
func (d *Disposables) Len() int {
	return len(d.items)
}

// Dispose pops and releases every handle. Handles pushed while disposing are
// released in the same call.
func (d *Disposables) Dispose() {
	for len(d.items) > 0 {
		last := len(d.items) - 1
		item := d.items[last]
		d.items[last] = nil
		d.items = d.items[:last]
		item.Dispose()
	}
}

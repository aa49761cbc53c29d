package sandbox

import (
	"container/heap"

	"github.com/dop251/goja"
)

// timerQueue gives sandboxed code a deterministic setTimeout. Timers fire on
// a virtual clock in (fireAt, registration) order when the executor pumps the
// queue; nothing ever sleeps for real, so a task with a 500ms delay settles
// instantly while still observing the scheduling order real timers would
// produce.
type timerQueue struct {
	vm        *goja.Runtime
	now       int64
	seq       int64
	nextID    int64
	pending   timerHeap
	cancelled map[int64]bool
}

type timer struct {
	id     int64
	fireAt int64
	seq    int64
	fn     goja.Callable
	args   []goja.Value
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].fireAt != h[j].fireAt {
		return h[i].fireAt < h[j].fireAt
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(*timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

func newTimerQueue(vm *goja.Runtime) *timerQueue {
	tq := &timerQueue{vm: vm, cancelled: make(map[int64]bool)}
	vm.Set("setTimeout", tq.setTimeout)
	vm.Set("clearTimeout", tq.clearTimeout)
	return tq
}

func (tq *timerQueue) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(tq.vm.NewTypeError("setTimeout callback must be a function"))
	}
	delay := call.Argument(1).ToInteger()
	if delay < 0 {
		delay = 0
	}
	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = append(args, call.Arguments[2:]...)
	}
	tq.nextID++
	tq.seq++
	heap.Push(&tq.pending, &timer{
		id:     tq.nextID,
		fireAt: tq.now + delay,
		seq:    tq.seq,
		fn:     fn,
		args:   args,
	})
	return tq.vm.ToValue(tq.nextID)
}

func (tq *timerQueue) clearTimeout(call goja.FunctionCall) goja.Value {
	tq.cancelled[call.Argument(0).ToInteger()] = true
	return goja.Undefined()
}

// fireNext runs the earliest pending timer through invoke (which applies the
// interrupt guard). Returns false when the queue is drained.
func (tq *timerQueue) fireNext(invoke func(fn goja.Callable, args []goja.Value) error) (bool, error) {
	for tq.pending.Len() > 0 {
		t := heap.Pop(&tq.pending).(*timer)
		if tq.cancelled[t.id] {
			delete(tq.cancelled, t.id)
			continue
		}
		if t.fireAt > tq.now {
			tq.now = t.fireAt
		}
		return true, invoke(t.fn, t.args)
	}
	return false, nil
}

package elevator

// CallQueue holds unassigned external calls in insertion order.
// CallQueue는 아직 배정되지 않은 외부 호출을 삽입 순서대로 보관합니다.
type CallQueue struct {
	calls []*Call
}

// Push appends a call to the tail.
func (q *CallQueue) Push(c *Call) {
	q.calls = append(q.calls, c)
}

// Len returns the number of waiting calls.
func (q *CallQueue) Len() int {
	return len(q.calls)
}

// At returns the i-th waiting call.
func (q *CallQueue) At(i int) *Call {
	return q.calls[i]
}

// RemoveAt removes and returns the i-th waiting call, keeping order.
func (q *CallQueue) RemoveAt(i int) *Call {
	c := q.calls[i]
	copy(q.calls[i:], q.calls[i+1:])
	q.calls[len(q.calls)-1] = nil
	q.calls = q.calls[:len(q.calls)-1]
	return c
}

// Floors returns the floors of the waiting calls in queue order.
func (q *CallQueue) Floors() []int {
	floors := make([]int, len(q.calls))
	for i, c := range q.calls {
		floors[i] = c.Floor
	}
	return floors
}

package crawl

// Queue orders document names for discovery. Names are slash paths without
// extension ("guide/setup"), already cleaned by fetch.CleanName; each one is
// queued once, and the document that first linked to it is remembered so a
// missing target can be reported with its referrer.
type Queue struct {
	names     []string
	referrers map[string]string // name -> first linking document, "" for seeds
	next      int
}

func NewQueue() *Queue {
	return &Queue{referrers: make(map[string]string)}
}

// Add queues name unless it was queued before. from is the document that
// links to it, or "" for the root and explicitly listed documents.
func (q *Queue) Add(name, from string) {
	if _, seen := q.referrers[name]; seen {
		return
	}
	q.referrers[name] = from
	q.names = append(q.names, name)
}

func (q *Queue) HasNext() bool {
	return q.next < len(q.names)
}

// Next returns the next queued name.
func (q *Queue) Next() string {
	name := q.names[q.next]
	q.next++
	return name
}

// Referrer returns the document that first linked to name.
func (q *Queue) Referrer(name string) string {
	return q.referrers[name]
}

// Visited returns the number of distinct names queued so far.
func (q *Queue) Visited() int {
	return len(q.referrers)
}

// All returns every queued name in discovery order.
func (q *Queue) All() []string {
	return q.names
}

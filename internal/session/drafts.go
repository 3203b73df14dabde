package session

import "maps"

// Drafts maps a comment id to the reply text being typed. A key being
// present means the reply box for that comment is open. Drafts are never
// persisted.
type Drafts struct {
	m map[string]string
}

// Toggle opens an empty draft for commentID, or closes (and drops) an open one.
// It reports whether the draft is open afterwards.
func (d *Drafts) Toggle(commentID string) bool {
	if _, open := d.m[commentID]; open {
		delete(d.m, commentID)
		return false
	}
	if d.m == nil {
		d.m = make(map[string]string)
	}
	d.m[commentID] = ""
	return true
}

// Set replaces the text of a draft, opening it if needed.
func (d *Drafts) Set(commentID, text string) {
	if d.m == nil {
		d.m = make(map[string]string)
	}
	d.m[commentID] = text
}

// Get returns the draft text and whether the draft is open.
func (d *Drafts) Get(commentID string) (string, bool) {
	text, ok := d.m[commentID]
	return text, ok
}

// Submit removes the draft and returns the text that was in it. The caller
// decides what to do with the text; the draft is gone either way.
func (d *Drafts) Submit(commentID string) (text string, wasOpen bool) {
	text, wasOpen = d.m[commentID]
	delete(d.m, commentID)
	return text, wasOpen
}

// Len returns the number of open drafts.
func (d *Drafts) Len() int {
	return len(d.m)
}

// Snapshot returns a copy of every open draft.
func (d *Drafts) Snapshot() map[string]string {
	if d.m == nil {
		return map[string]string{}
	}
	return maps.Clone(d.m)
}

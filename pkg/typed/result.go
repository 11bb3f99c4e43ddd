package typed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LoadStatus describes what a load found in the store.
type LoadStatus int

const (
	// LoadOK means the stored value parsed.
	LoadOK LoadStatus = iota
	// LoadAbsent means the key was missing or held JSON null.
	LoadAbsent
	// LoadMalformed means the stored value did not parse and was ignored.
	LoadMalformed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadAbsent:
		return "absent"
	case LoadMalformed:
		return "malformed"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult is the outcome of parsing one stored value. A malformed value is
// not an error: Value holds the fallback and Err holds the parse failure.
type LoadResult[V any] struct {
	Value  V
	Status LoadStatus
	Err    error
	// Assigned counts collection items that were missing an id (or carried a
	// duplicate one) and received a fresh id during the load.
	Assigned int
}

// OK reports whether the stored value was present and parsed.
func (r LoadResult[V]) OK() bool { return r.Status == LoadOK }

// decode parses raw into V. Absent and null values yield the fallback.
func decode[V any](raw string, present bool, fallback func() V) LoadResult[V] {
	if !present || bytes.Equal(bytes.TrimSpace([]byte(raw)), []byte("null")) {
		return LoadResult[V]{Value: fallback(), Status: LoadAbsent}
	}

	var v V
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return LoadResult[V]{Value: fallback(), Status: LoadMalformed, Err: err}
	}
	return LoadResult[V]{Value: v, Status: LoadOK}
}

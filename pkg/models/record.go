package models

// Record is one parsed row: an ordered mapping from column name to string
// value. Key order follows the source header, plus any fields appended during
// enrichment, so serializing a record set reproduces the source layout.
// Setting an existing key overwrites the value in place and keeps its
// position.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores value under key, appending the key if it is new.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key, or the empty string when absent.
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether key is present, even with an empty value.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the column names in insertion order. The caller must not
// mutate the returned slice.
func (r *Record) Keys() []string {
	return r.keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy preserving key order.
func (r *Record) Clone() *Record {
	out := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]string, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Number returns the value for key run through ParseNumber.
func (r *Record) Number(key string) float64 {
	return ParseNumber(r.Get(key))
}

// SetNumber stores a computed amount under key, formatted the shortest way
// that round-trips, so serialized output carries no artificial padding.
func (r *Record) SetNumber(key string, value float64) {
	r.Set(key, FormatNumber(value))
}

// NonEmptyFieldCount counts fields whose value is not the empty string.
func (r *Record) NonEmptyFieldCount() int {
	n := 0
	for _, v := range r.values {
		if v != "" {
			n++
		}
	}
	return n
}

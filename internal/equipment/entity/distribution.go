package entity

// TypeCount is the number of records sharing one equipment type.
type TypeCount struct {
	Type  string
	Count int
}

// Distribution is the type histogram of a session, in order of first occurrence.
type Distribution []TypeCount

// Map returns the histogram as a type -> count mapping.
func (d Distribution) Map() map[string]int {
	m := make(map[string]int, len(d))
	for _, tc := range d {
		m[tc.Type] += tc.Count
	}
	return m
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, tc := range d {
		total += tc.Count
	}
	return total
}

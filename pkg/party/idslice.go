package party

import (
	"io"
	"sort"
	"strings"
)

// IDSlice is a sorted list of unique party IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of partyIDs.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := IDSlice(partyIDs).Copy()
	ids.sort()
	return ids
}

// Contains returns true if all the given ids are included in partyIDs.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if _, found := partyIDs.search(id); !found {
			return false
		}
	}
	return true
}

// Valid returns true if the IDSlice is sorted, has no duplicates, and contains no empty ID.
func (partyIDs IDSlice) Valid() bool {
	for i, id := range partyIDs {
		if id == "" {
			return false
		}
		if i > 0 && partyIDs[i-1] >= id {
			return false
		}
	}
	return true
}

// Copy returns an identical copy of the received.
func (partyIDs IDSlice) Copy() IDSlice {
	a := make(IDSlice, len(partyIDs))
	copy(a, partyIDs)
	return a
}

// Remove finds the first occurrence of id and returns a copy of partyIDs without it.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(partyIDs))
	for _, other := range partyIDs {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// Len Less and Swap implement sort.Interface.
func (partyIDs IDSlice) Len() int           { return len(partyIDs) }
func (partyIDs IDSlice) Less(i, j int) bool { return partyIDs[i] < partyIDs[j] }
func (partyIDs IDSlice) Swap(i, j int)      { partyIDs[i], partyIDs[j] = partyIDs[j], partyIDs[i] }

func (partyIDs IDSlice) sort() { sort.Sort(partyIDs) }

func (partyIDs IDSlice) search(x ID) (int, bool) {
	index := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= x })
	if index < len(partyIDs) && partyIDs[index] == x {
		return index, true
	}
	return 0, false
}

// WriteTo implements io.WriterTo. The IDs are written in order, each one
// prefixed by its length.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	total := int64(0)
	for _, id := range partyIDs {
		n, err := w.Write([]byte{byte(len(id))})
		total += int64(n)
		if err != nil {
			return total, err
		}
		m, err := id.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (IDSlice) Domain() string {
	return "IDSlice"
}

func (partyIDs IDSlice) String() string {
	s := make([]string, len(partyIDs))
	for i, id := range partyIDs {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}

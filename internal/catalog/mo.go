package catalog

import (
	"bytes"
	"encoding/binary"
	"sort"
)

const moMagic = 0x950412de

// CompileMO renders a parsed locale catalog in the GNU binary catalog format.
// Entries are sorted by original string as the format requires; output is
// deterministic for a given input catalog.
func CompileMO(po *POFile) []byte {
	entries := make([]Entry, 0, len(po.Entries)+1)
	entries = append(entries, Entry{ID: "", Str: po.Header})
	entries = append(entries, po.Entries...)

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	n := uint32(len(entries))
	origTableOff := uint32(28)
	transTableOff := origTableOff + 8*n
	dataOff := transTableOff + 8*n

	var data bytes.Buffer
	type slot struct{ length, offset uint32 }
	origSlots := make([]slot, n)
	transSlots := make([]slot, n)

	for i, e := range entries {
		origSlots[i] = slot{length: uint32(len(e.ID)), offset: dataOff + uint32(data.Len())}
		data.WriteString(e.ID)
		data.WriteByte(0)
	}
	for i, e := range entries {
		transSlots[i] = slot{length: uint32(len(e.Str)), offset: dataOff + uint32(data.Len())}
		data.WriteString(e.Str)
		data.WriteByte(0)
	}

	var out bytes.Buffer
	write := func(v uint32) {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}

	write(moMagic)
	write(0) // file format revision
	write(n)
	write(origTableOff)
	write(transTableOff)
	write(0) // hash table size (no hash table)
	write(dataOff)
	for _, s := range origSlots {
		write(s.length)
		write(s.offset)
	}
	for _, s := range transSlots {
		write(s.length)
		write(s.offset)
	}
	out.Write(data.Bytes())

	return out.Bytes()
}

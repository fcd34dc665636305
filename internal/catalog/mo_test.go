package catalog

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// readMO decodes a compiled catalog back into a translation map. Used by
// tests to verify the binary layout end to end.
func readMO(t *testing.T, data []byte) map[string]string {
	t.Helper()
	require.GreaterOrEqual(t, len(data), 28, "catalog header truncated")

	u32 := func(off uint32) uint32 {
		return binary.LittleEndian.Uint32(data[off : off+4])
	}

	require.Equal(t, uint32(moMagic), u32(0), "bad magic")
	require.Equal(t, uint32(0), u32(4), "unexpected format revision")

	n := u32(8)
	origTable := u32(12)
	transTable := u32(16)

	readString := func(table, i uint32) string {
		length := u32(table + 8*i)
		offset := u32(table + 8*i + 4)
		require.LessOrEqual(t, int(offset+length), len(data), "string out of bounds")
		return string(data[offset : offset+length])
	}

	out := make(map[string]string, n)
	var prev string
	for i := uint32(0); i < n; i++ {
		id := readString(origTable, i)
		if i > 0 {
			require.Less(t, prev, id, "originals must be sorted")
		}
		prev = id
		out[id] = readString(transTable, i)
	}
	return out
}

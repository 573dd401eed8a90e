package database

import (
	"hash/fnv"
	"strconv"
)

// RollupLockKey is the advisory lock guarding one company's rollups.
// Completions and voids hold it shared; a rebuild holds it exclusively.
func RollupLockKey(companyID int64) int64 {
	h := fnv.New64a()
	h.Write([]byte("rollup"))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(companyID, 10)))

	return int64(h.Sum64())
}

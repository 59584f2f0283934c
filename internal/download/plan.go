package download

import "github.com/swoopdl/swoop/internal/utils"

// PlanRanges partitions [0, totalSize-1] into count contiguous,
// non-overlapping ranges ordered by index. Every range gets
// totalSize/count bytes except the last, which absorbs the remainder.
// Callers must pass totalSize >= count >= 1.
func PlanRanges(totalSize int64, count int) []utils.ByteRange {
	if count < 1 {
		count = 1
	}
	partSize := totalSize / int64(count)
	ranges := make([]utils.ByteRange, 0, count)
	for i := 0; i < count; i++ {
		startByte := int64(i) * partSize
		endByte := startByte + partSize - 1
		if i == count-1 {
			endByte = totalSize - 1
		}
		ranges = append(ranges, utils.ByteRange{
			Index:     i,
			StartByte: startByte,
			EndByte:   endByte,
		})
	}
	return ranges
}

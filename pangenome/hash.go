package pangenome

import (
	"sort"
	"strconv"
	"strings"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/minio/highwayhash"
)

var zeroHashKey [highwayhash.Size]byte

// BlockHash hashes the sorted fragment IDs of b. Fragment order and
// alignment do not affect the result.
func BlockHash(b *Block) uint64 {
	ids := make([]string, len(b.fragments))
	for i, f := range b.fragments {
		ids[i] = f.ID()
	}
	sort.Strings(ids)
	joint := strings.Join(ids, " ")
	return highwayhash.Sum64(gunsafe.StringToBytes(joint), zeroHashKey[:])
}

// Hash XORs BlockHash over the blocks with more than one fragment.
func (bs *BlockSet) Hash() uint64 {
	var h uint64
	for _, b := range bs.blocks {
		if b.Size() > 1 {
			h ^= BlockHash(b)
		}
	}
	return h
}

// BlockID returns "<size>x<length>", where length is the length of the
// longest fragment.
func BlockID(b *Block) string {
	length := 0
	for _, f := range b.fragments {
		if l := f.Length(); l > length {
			length = l
		}
	}
	return strconv.Itoa(b.Size()) + "x" + strconv.Itoa(length)
}

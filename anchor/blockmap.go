package anchor

import (
	"sort"
	"sync"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/bloomrepeats/pangenome"
)

const numBlockMapShards = 64

type blockShard struct {
	mu     sync.Mutex
	blocks map[string]*pangenome.Block
}

// blockMap is a sharded, thread-safe map from oriented window contents to
// the block collecting its occurrences.
type blockMap struct {
	shards [numBlockMapShards]blockShard
}

func newBlockMap() *blockMap {
	m := &blockMap{}
	for i := range m.shards {
		m.shards[i].blocks = make(map[string]*pangenome.Block)
	}
	return m
}

// add inserts f into the block stored under key, creating the block if
// key is new. The map keeps a copy of key.
func (m *blockMap) add(key []byte, f *pangenome.Fragment) (created bool) {
	shard := &m.shards[int(seahash.Sum64(key)%numBlockMapShards)]
	shard.mu.Lock()
	b, ok := shard.blocks[string(key)]
	if !ok {
		b = pangenome.NewBlock()
		shard.blocks[string(key)] = b
	}
	b.Insert(f)
	shard.mu.Unlock()
	return !ok
}

// size returns the number of entries in the map. It returns a correct
// number iff it is invoked when no other thread is accessing the map.
func (m *blockMap) size() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		n += len(s.blocks)
		s.mu.Unlock()
	}
	return n
}

// drain empties the map and returns its blocks ordered by key.
func (m *blockMap) drain() []*pangenome.Block {
	type entry struct {
		key string
		b   *pangenome.Block
	}
	var entries []entry
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for k, b := range s.blocks {
			entries = append(entries, entry{k, b})
		}
		s.blocks = make(map[string]*pangenome.Block)
		s.mu.Unlock()
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	blocks := make([]*pangenome.Block, len(entries))
	for i, e := range entries {
		blocks[i] = e.b
	}
	return blocks
}

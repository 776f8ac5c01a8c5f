package value

// Per-kind cost model for the byte footprint estimate. The numbers are
// deliberately approximate: booleans and numbers charge a fixed machine
// word-ish cost, text charges two bytes per byte to approximate wide
// encodings, binary charges its raw length, and containers charge a base
// plus a per-slot overhead on top of their contents.
const (
	boolCost      = 4
	numberCost    = 8
	textFactor    = 2
	containerCost = 16
	slotCost      = 8

	// maxDepth caps the recursive estimate. Anything nested deeper,
	// self-referencing containers included, is charged fallbackCost for
	// the whole pruned subtree.
	maxDepth     = 10
	fallbackCost = 64
)

// QuickSize returns a shallow footprint estimate in bytes. It never
// recurses into container elements, so its cost is O(len) on the top
// level only: lists charge a slot per element, maps a slot plus the key
// text per entry. This is the synchronous estimate charged on the write
// path; DeepSize later refines it.
func QuickSize(v Value) int64 {
	switch v.kind {
	case KindBool:
		return boolCost
	case KindInt, KindFloat:
		return numberCost
	case KindString:
		return int64(textFactor * len(v.str))
	case KindBytes:
		return int64(len(v.raw))
	case KindList:
		return containerCost + int64(len(v.list))*slotCost
	case KindMap:
		n := int64(containerCost)
		for k := range v.dict {
			n += slotCost + int64(textFactor*len(k))
		}
		return n
	default:
		return 0
	}
}

// DeepSize returns the recursive footprint estimate in bytes. It walks
// container contents up to maxDepth levels; deeper subtrees are charged a
// fixed fallback cost, which also guarantees termination on cyclic
// structures. For scalar payloads DeepSize equals QuickSize.
func DeepSize(v Value) int64 { return deepSize(v, 0) }

func deepSize(v Value, depth int) int64 {
	switch v.kind {
	case KindBool:
		return boolCost
	case KindInt, KindFloat:
		return numberCost
	case KindString:
		return int64(textFactor * len(v.str))
	case KindBytes:
		return int64(len(v.raw))
	case KindList:
		if depth >= maxDepth {
			return fallbackCost
		}
		n := int64(containerCost)
		for _, it := range v.list {
			n += slotCost + deepSize(it, depth+1)
		}
		return n
	case KindMap:
		if depth >= maxDepth {
			return fallbackCost
		}
		n := int64(containerCost)
		for k, it := range v.dict {
			n += slotCost + int64(textFactor*len(k)) + deepSize(it, depth+1)
		}
		return n
	default:
		return 0
	}
}

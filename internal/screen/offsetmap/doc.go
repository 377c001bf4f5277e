// Package offsetmap provides an open-addressing hash map whose entire state
// lives in a single flat byte region.
//
// No slot, key or value is ever referenced by address from outside the
// region. Every internal reference is a capacity-relative index, so the
// region can be copied, grown or written out as one block and re-attached
// with View. This is what allows a page of terminal cells to embed its
// per-cell metadata tables in the same allocation as the cell grid.
//
// # Layout
//
// A region holding a map of capacity c is laid out as:
//
//	[header][metadata: c bytes][keys: c * sizeof(K)][values: c * sizeof(V)]
//
// The key array is aligned to alignof(K), the value array to alignof(V) and
// the total size to the largest alignment of header, K and V. The capacity
// is always a power of two and at least MinimalCapacity.
//
// Each metadata byte is either free (0x00), a tombstone (0x01) or used, in
// which case the high bit is set and the low seven bits hold the top seven
// bits of the key's hash. Probing compares this fingerprint before falling
// back to full key equality.
//
// # Types
//
//   - Unmanaged: a fixed-capacity view over a caller-provided region. Used
//     by page tables, which grow by rebuilding the whole page.
//   - Map: owns its region and grows by rehashing live entries into a
//     freshly allocated one.
//
// K and V must be fixed-size types without pointers; they are stored as raw
// bytes the garbage collector does not scan.
//
// # Iteration
//
// Iterators walk slots in index order, which is not a stable enumeration
// order: growth and tombstone reuse reorder entries. Mutating a map while
// iterating it is undefined.
package offsetmap

// Package region allocates the flat, 8-byte aligned memory blocks that back
// relocatable screen structures.
//
// Every page and every standalone offset map lives in exactly one region.
// Regions are carved out of []uint64 so the base address satisfies the
// alignment of any header, key or value type stored inside, and are exposed
// as []byte so layouts can be computed with plain offset arithmetic.
package region
